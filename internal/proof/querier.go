package proof

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/rpc"
)

const getProofMethod = "eth_getProof"

// RPCCaller is the part of *rpc.Client the Querier depends on.
type RPCCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Querier can get proofs for stored contract values
type Querier struct {
	client RPCCaller
}

func NewQuerier(client RPCCaller) *Querier {
	return &Querier{client: client}
}

// GetStorageProof performs a single eth_getProof call for one storage slot and
// returns the account and storage proof nodes as supplied by the node.
// Nothing is retried: the first failure is returned as an *Error.
func (q *Querier) GetStorageProof(ctx context.Context, query StorageQuery) (*StorageProof, error) {
	var res *accountResult
	err := q.client.CallContext(ctx, &res, getProofMethod,
		query.Address,
		[]string{query.Key.Hex()},
		query.Block.String(),
	)
	if err != nil {
		return nil, classifyCallError(err)
	}

	if res == nil {
		return nil, NewError(UpstreamError, "%s returned an empty result for block %s", getProofMethod, query.Block)
	}
	if len(res.StorageProof) == 0 {
		return nil, NewError(UpstreamError, "%s result has no storage proof for key %s", getProofMethod, query.Key.Hex())
	}

	storage := res.StorageProof[0]
	if err := checkNodes(res.AccountProof); err != nil {
		return nil, newError(UpstreamError, err, "malformed account proof")
	}
	if err := checkNodes(storage.Proof); err != nil {
		return nil, newError(UpstreamError, err, "malformed storage proof")
	}

	nodes := storage.Proof
	if nodes == nil {
		nodes = []string{}
	}
	return &StorageProof{
		Address:      query.Address,
		Key:          query.Key,
		Block:        query.Block,
		Value:        storage.Value,
		StorageHash:  res.StorageHash,
		AccountProof: res.AccountProof,
		StorageNodes: nodes,
	}, nil
}

// checkNodes makes sure every node is a hex encoded RLP list. It says nothing
// about whether the nodes hash up to a state root.
func checkNodes(nodes []string) error {
	for i, node := range nodes {
		raw, err := hexutil.Decode(node)
		if err != nil {
			return fmt.Errorf("node %d is not hex: %w", i, err)
		}
		kind, _, rest, err := rlp.Split(raw)
		if err != nil {
			return fmt.Errorf("node %d is not valid rlp: %w", i, err)
		}
		if kind != rlp.List {
			return fmt.Errorf("node %d is not an rlp list", i)
		}
		if len(rest) != 0 {
			return fmt.Errorf("node %d has %d trailing bytes", i, len(rest))
		}
	}
	return nil
}

// classifyCallError maps errors of the go-ethereum rpc client onto Kinds.
func classifyCallError(err error) *Error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		e := newError(UpstreamError, err, "%s failed with code %d", getProofMethod, rpcErr.ErrorCode())
		e.Code = rpcErr.ErrorCode()
		return e
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		e := newError(UpstreamError, err, "upstream node answered with http status %d", httpErr.StatusCode)
		e.Code = httpErr.StatusCode
		return e
	}

	var (
		syntaxErr    *json.SyntaxError
		unmarshalErr *json.UnmarshalTypeError
	)
	if errors.Is(err, rpc.ErrNoResult) || errors.As(err, &syntaxErr) || errors.As(err, &unmarshalErr) {
		return newError(UpstreamError, err, "undecodable %s response", getProofMethod)
	}

	return newError(EndpointUnreachable, err, "failed to call %s", getProofMethod)
}

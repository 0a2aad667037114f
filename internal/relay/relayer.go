package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/blockvault/storage-proof-relayer/internal/metrics"
	"github.com/blockvault/storage-proof-relayer/internal/proof"
	"github.com/blockvault/storage-proof-relayer/internal/registry"
)

const proofMethod = "eth_getProof"

// Config holds the request independent settings of a Relayer.
type Config struct {
	TargetContract common.Address
	ProofTimeout   time.Duration
}

// Relayer turns proof requests into upstream eth_getProof calls. It holds no
// per-request state and is safe for concurrent use.
type Relayer struct {
	cfg      Config
	proofer  Proofer
	registry *registry.Registry
	logger   *zap.Logger
}

func NewRelayer(cfg Config, proofer Proofer, registry *registry.Registry, logger *zap.Logger) *Relayer {
	return &Relayer{
		cfg:      cfg,
		proofer:  proofer,
		registry: registry,
		logger:   logger,
	}
}

// RelayProof validates req, fetches the proof and shapes the response. Any
// failure yields Success=false with the error kind set and an empty proof.
func (r *Relayer) RelayProof(ctx context.Context, req ProofRequest) ProofResponse {
	query, err := r.buildQuery(req)
	if err != nil {
		r.logger.Debug("rejected proof request",
			zap.String("block_number", req.BlockNumber),
			zap.String("storage_slot", req.StorageSlot),
			zap.String("contract_address", req.ContractAddress),
			zap.Error(err))
		metrics.AddRejectedRequest(string(proof.KindOf(err)))
		return failure(err)
	}

	if r.cfg.ProofTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ProofTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := r.proofer.GetStorageProof(ctx, query)
	dur := time.Since(start)
	if err != nil {
		kind := proof.KindOf(err)
		if kind == "" {
			err = &proof.Error{Kind: proof.UpstreamError, Message: "proof query failed", Err: err}
			kind = proof.UpstreamError
		}
		metrics.AddFailedProof(proofMethod, string(kind), dur.Seconds())
		r.logger.Error("failed to fetch storage proof",
			zap.String("address", query.Address.Hex()),
			zap.String("key", query.Key.Hex()),
			zap.String("block", query.Block.String()),
			zap.String("kind", string(kind)),
			zap.Bool("cancelled", errors.Is(err, context.Canceled)),
			zap.Duration("duration", dur),
			zap.Error(err))
		return failure(err)
	}

	metrics.AddSuccessProof(proofMethod, len(res.StorageNodes), dur.Seconds())
	r.logger.Info("relayed storage proof",
		zap.String("address", query.Address.Hex()),
		zap.String("key", query.Key.Hex()),
		zap.String("block", query.Block.String()),
		zap.Int("nodes", len(res.StorageNodes)),
		zap.Duration("duration", dur))

	return success(res)
}

func (r *Relayer) buildQuery(req ProofRequest) (proof.StorageQuery, error) {
	block, err := proof.ParseBlockReference(req.BlockNumber)
	if err != nil {
		return proof.StorageQuery{}, err
	}

	key, err := proof.ParseStorageKey(req.StorageSlot)
	if err != nil {
		return proof.StorageQuery{}, err
	}

	address := r.cfg.TargetContract
	if req.ContractAddress != "" {
		address, err = proof.ParseAddress(req.ContractAddress)
		if err != nil {
			return proof.StorageQuery{}, err
		}
	}

	if !r.registry.Allows(address) {
		return proof.StorageQuery{}, proof.NewError(proof.ContractNotAllowed, "contract %s is not in the registry", address.Hex())
	}

	return proof.StorageQuery{Address: address, Key: key, Block: block}, nil
}

func success(res *proof.StorageProof) ProofResponse {
	nodes := make([]string, len(res.StorageNodes))
	copy(nodes, res.StorageNodes)

	resp := ProofResponse{
		Success:      true,
		MerkleProof:  nodes,
		Address:      res.Address.Hex(),
		StorageKey:   res.Key.Hex(),
		Block:        res.Block.String(),
		StorageHash:  res.StorageHash.Hex(),
		AccountProof: res.AccountProof,
	}
	if res.Value != nil {
		resp.Value = res.Value.String()
	}
	return resp
}

func failure(err error) ProofResponse {
	info := &ErrorInfo{
		Kind:    string(proof.KindOf(err)),
		Message: clientMessage(err),
	}
	var perr *proof.Error
	if errors.As(err, &perr) {
		info.Code = perr.Code
	}
	return ProofResponse{
		Success:     false,
		MerkleProof: []string{},
		Error:       info,
	}
}

// clientMessage is the error text returned to the requester. Transport errors
// quote the upstream url, which may hold an api key, so only their summary
// goes out; the full error is logged.
func clientMessage(err error) string {
	var perr *proof.Error
	if !errors.As(err, &perr) || perr.Kind != proof.EndpointUnreachable {
		return err.Error()
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Sprintf("%s: %s: upstream request timed out", perr.Kind, perr.Message)
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("%s: %s: request cancelled", perr.Kind, perr.Message)
	}
	return fmt.Sprintf("%s: %s", perr.Kind, perr.Message)
}

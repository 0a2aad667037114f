package proof

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// StorageQuery identifies a single storage slot of a contract at a block.
type StorageQuery struct {
	Address common.Address
	Key     common.Hash
	Block   BlockReference
}

// StorageProof is what the relayer hands out for a StorageQuery. Node lists
// are kept exactly as the upstream node returned them, root first.
type StorageProof struct {
	Address      common.Address
	Key          common.Hash
	Block        BlockReference
	Value        *hexutil.Big
	StorageHash  common.Hash
	AccountProof []string
	StorageNodes []string
}

// accountResult holds the parts of the eth_getProof result that are relayed.
// Account fields nobody reads (balance, nonce, codeHash) are left undecoded.
type accountResult struct {
	AccountProof []string        `json:"accountProof"`
	StorageHash  common.Hash     `json:"storageHash"`
	StorageProof []storageResult `json:"storageProof"`
}

type storageResult struct {
	Key   string       `json:"key"`
	Value *hexutil.Big `json:"value"`
	Proof []string     `json:"proof"`
}

package relay

// ProofRequest is the body of POST /proof.
type ProofRequest struct {
	BlockNumber     string `json:"block_number"`
	StorageSlot     string `json:"storage_slot"`
	ContractAddress string `json:"contract_address,omitempty"`
}

// ProofResponse is returned for every proof request. MerkleProof is never nil and
// only ever holds nodes returned by the upstream node.
type ProofResponse struct {
	Success      bool       `json:"success"`
	MerkleProof  []string   `json:"merkle_proof"`
	Address      string     `json:"address,omitempty"`
	StorageKey   string     `json:"storage_key,omitempty"`
	Block        string     `json:"block,omitempty"`
	Value        string     `json:"value,omitempty"`
	StorageHash  string     `json:"storage_hash,omitempty"`
	AccountProof []string   `json:"account_proof,omitempty"`
	Error        *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo tells the caller why a proof could not be relayed.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// RegistryConfig represents the config structure for the Registry.
type RegistryConfig struct {
	Addresses []string
}

// New instantiates a new *Registry based on the cfg.
func New(cfg *RegistryConfig) (*Registry, error) {
	r := &Registry{
		addresses: make(map[common.Address]struct{}, len(cfg.Addresses)),
	}
	for _, addr := range cfg.Addresses {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid registry address %q", addr)
		}
		r.addresses[common.HexToAddress(addr)] = struct{}{}
	}
	return r, nil
}

// Registry is the relayer's contract allow-list. When it is empty every contract
// may be proven; otherwise only storage of the listed contracts is relayed.
type Registry struct {
	addresses map[common.Address]struct{}
}

// IsEmpty returns true if the registry addresses list is empty.
func (r *Registry) IsEmpty() bool {
	return len(r.addresses) == 0
}

// Contains returns true if the addr is in the registry.
func (r *Registry) Contains(addr common.Address) bool {
	_, ex := r.addresses[addr]
	return ex
}

// Allows returns true if proofs for addr may be relayed.
func (r *Registry) Allows(addr common.Address) bool {
	return r.IsEmpty() || r.Contains(addr)
}

func (r *Registry) GetAddresses() []common.Address {
	var out []common.Address
	for addr := range r.addresses {
		out = append(out, addr)
	}

	return out
}

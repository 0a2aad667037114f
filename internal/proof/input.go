package proof

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Reserved block tags accepted in place of a block number.
const (
	TagLatest   = "latest"
	TagEarliest = "earliest"
	TagPending  = "pending"
)

// BlockReference is either a block height or one of the reserved tags.
type BlockReference struct {
	Number uint64
	Tag    string
}

// IsTag reports whether the reference is a symbolic tag rather than a height.
func (b BlockReference) IsTag() bool {
	return b.Tag != ""
}

// String returns the reference as a JSON-RPC block parameter: the tag itself
// or a 0x-prefixed hex quantity.
func (b BlockReference) String() string {
	if b.IsTag() {
		return b.Tag
	}
	return hexutil.EncodeUint64(b.Number)
}

// ParseBlockReference accepts a 0x-prefixed hex quantity, a decimal number or
// one of latest/earliest/pending.
func ParseBlockReference(s string) (BlockReference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return BlockReference{}, NewError(MalformedInput, "block_number is empty")
	}

	switch tag := strings.ToLower(s); tag {
	case TagLatest, TagEarliest, TagPending:
		return BlockReference{Tag: tag}, nil
	}

	if has0xPrefix(s) {
		// hexutil is strict about leading zeros, a block number from a caller isn't
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" && len(s) > 2 {
			return BlockReference{Number: 0}, nil
		}
		n, err := hexutil.DecodeUint64("0x" + digits)
		if err != nil {
			return BlockReference{}, newError(MalformedInput, err, "invalid hex block_number %q", s)
		}
		return BlockReference{Number: n}, nil
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return BlockReference{}, newError(MalformedInput, err, "invalid block_number %q", s)
	}
	return BlockReference{Number: n}, nil
}

// ParseStorageKey decodes a hex storage slot into a 32-byte key. Shorter
// values are left-padded with zeros; values longer than 32 bytes are rejected.
func ParseStorageKey(s string) (common.Hash, error) {
	s = strings.TrimSpace(s)
	digits := s
	if has0xPrefix(digits) {
		digits = digits[2:]
	}
	if digits == "" {
		return common.Hash{}, NewError(MalformedInput, "storage_slot is empty")
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}

	raw, err := hex.DecodeString(digits)
	if err != nil {
		return common.Hash{}, newError(MalformedInput, err, "invalid hex storage_slot %q", s)
	}
	if len(raw) > common.HashLength {
		return common.Hash{}, NewError(MalformedInput,
			"storage_slot is %d bytes long, at most %d allowed", len(raw), common.HashLength)
	}

	var key common.Hash
	copy(key[common.HashLength-len(raw):], raw)
	return key, nil
}

// ParseAddress validates and decodes a 20-byte hex account address.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, NewError(MalformedInput, "invalid contract address %q", s)
	}
	return common.HexToAddress(s), nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

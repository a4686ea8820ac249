// Package election holds the Phragmén engine's core state: accounts,
// candidates, voters and the edges between them.
package election

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mr-tron/base58"
)

// AccountSize is the length in bytes of an AccountID.
const AccountSize = 32

// AccountID is an opaque 32-byte account identifier. It is comparable and
// totally ordered by byte-lexicographic comparison, which is what the
// kernel uses for stable tie-breaking (spec invariant: smaller AccountID
// wins a tied score).
type AccountID [AccountSize]byte

// Less reports whether a sorts before o in byte-lexicographic order.
func (a AccountID) Less(o AccountID) bool {
	return bytes.Compare(a[:], o[:]) < 0
}

// String renders the account as a base58 address, standing in for
// Substrate's SS58 address format at the presentation boundary.
func (a AccountID) String() string {
	return base58.Encode(a[:])
}

// ParseAccountID decodes a base58-encoded address into an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	raw, err := base58.Decode(s)
	if err != nil {
		return id, fmt.Errorf("election: parse account id: %w", err)
	}
	if len(raw) != AccountSize {
		return id, fmt.Errorf("election: parse account id: expected %d bytes, got %d", AccountSize, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// MarshalJSON renders the account as its base58 address string.
func (a AccountID) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a "0x"-prefixed hex string (the chain RPC's
// native encoding) or a base58 address string (the presentation encoding).
func (a *AccountID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		raw, err := hex.DecodeString(s[2:])
		if err != nil {
			return fmt.Errorf("election: unmarshal account id: %w", err)
		}
		if len(raw) != AccountSize {
			return fmt.Errorf("election: unmarshal account id: expected %d bytes, got %d", AccountSize, len(raw))
		}
		copy(a[:], raw)
		return nil
	}
	id, err := ParseAccountID(s)
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// SortAccountIDs sorts ids in place by byte-lexicographic order.
func SortAccountIDs(ids []AccountID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}

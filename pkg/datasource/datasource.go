// Package datasource defines the chain-fetch boundary: the ElectionsDataSource
// capability that turns a block hash into the raw election snapshot the
// engine's input preparation stage consumes.
package datasource

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/rbochenek/liberland-vote-scope/pkg/election"
)

// BlockHash is a 32-byte block identifier.
type BlockHash [32]byte

// SeatHolder is a council member or runner-up as recorded on chain.
type SeatHolder struct {
	Who     election.AccountID
	Stake   uint256.Int
	Deposit uint256.Int
}

// CandidateEntry is a pending candidate and its locked deposit.
type CandidateEntry struct {
	Who     election.AccountID
	Deposit uint256.Int
}

// VotingRecord is one voter's on-chain stake, deposit and approval list.
type VotingRecord struct {
	Who     election.AccountID
	Stake   uint256.Int
	Deposit uint256.Int
	Votes   []election.AccountID
}

// Snapshot is the full on-chain election state at one block, the input
// preparation stage's sole input.
type Snapshot struct {
	BlockHash        BlockHash
	DesiredMembers   uint32
	DesiredRunnersUp uint32
	ElectionRounds   uint32
	Members          []SeatHolder
	RunnersUp        []SeatHolder
	Candidates       []CandidateEntry
	Voting           []VotingRecord
}

// ElectionsDataSource fetches the election Snapshot at a given block. A nil
// blockHash means "at the latest block".
type ElectionsDataSource interface {
	Fetch(ctx context.Context, blockHash *BlockHash) (Snapshot, error)
}

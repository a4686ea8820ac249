// Package snapshot turns a raw chain Snapshot into the phragmen kernel's
// Inputs: merging seat-holder and candidate pools, computing the seat
// count, and projecting voter records down to the kernel's ballot shape.
package snapshot

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/rbochenek/liberland-vote-scope/pkg/datasource"
	"github.com/rbochenek/liberland-vote-scope/pkg/election"
	"github.com/rbochenek/liberland-vote-scope/pkg/phragmen"
)

// Prepare projects a chain Snapshot into kernel Inputs per spec.md §4.2.
func Prepare(snap datasource.Snapshot) phragmen.Inputs {
	toElect := satAddUint32(snap.DesiredMembers, snap.DesiredRunnersUp)

	seen := make(map[election.AccountID]bool)
	candidates := make([]election.AccountID, 0, len(snap.Members)+len(snap.RunnersUp)+len(snap.Candidates))

	addOnce := func(who election.AccountID) {
		if seen[who] {
			return // DuplicateCandidate: first occurrence wins.
		}
		seen[who] = true
		candidates = append(candidates, who)
	}

	for _, m := range snap.Members {
		addOnce(m.Who)
	}
	for _, r := range snap.RunnersUp {
		addOnce(r.Who)
	}
	for _, c := range snap.Candidates {
		addOnce(c.Who)
	}

	voters := make([]phragmen.VoterApprovals, 0, len(snap.Voting))
	for _, rec := range snap.Voting {
		approvals := make([]election.AccountID, len(rec.Votes))
		copy(approvals, rec.Votes)
		voters = append(voters, phragmen.VoterApprovals{
			Who:       rec.Who,
			Stake:     saturatingUint64(rec.Stake),
			Approvals: approvals,
		})
	}

	return phragmen.Inputs{
		ToElect:    int(toElect),
		Candidates: candidates,
		Voters:     voters,
	}
}

// satAddUint32 adds a and b, saturating at the u32 maximum.
func satAddUint32(a, b uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(sum)
}

// saturatingUint64 narrows a u128 on-chain stake to the u64 the kernel
// operates on, clamping rather than wrapping if it somehow exceeds the u64
// range (stake figures of that size are not realistic, but the narrowing
// must never silently wrap).
func saturatingUint64(stake uint256.Int) uint64 {
	if !stake.IsUint64() {
		return math.MaxUint64
	}
	return stake.Uint64()
}

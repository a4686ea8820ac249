package election

import (
	"github.com/holiman/uint256"

	"github.com/rbochenek/liberland-vote-scope/pkg/rational"
)

// maxU128 mirrors rational.maxU128: the saturation ceiling for every u128
// quantity tracked outside the rational type itself (approval stake, backed
// stake, edge weight).
var maxU128 = func() *uint256.Int {
	v := uint256.NewInt(1)
	v.Lsh(v, 128)
	v.Sub(v, uint256.NewInt(1))
	return v
}()

// SatAddU128 returns a+b, saturating at the 128-bit maximum.
func SatAddU128(a, b uint256.Int) uint256.Int {
	sum := new(uint256.Int).Add(&a, &b)
	if sum.Gt(maxU128) {
		return *maxU128
	}
	return *sum
}

// Candidate is a single council candidate's election state. Per spec
// invariant 4, ApprovalStake is computed once, at setup, and never
// mutated afterwards.
type Candidate struct {
	Who           AccountID
	Score         rational.Rational128
	ApprovalStake uint256.Int
	Elected       bool
	Round         int
	BackedStake   uint256.Int
}

// Snapshot returns a value copy of c, safe to retain past further mutation
// of the original (every trace event embeds such a copy, never a live
// reference).
func (c *Candidate) Snapshot() Candidate {
	return *c
}

// Edge is a voter's relation to one named candidate. Weight is left at
// zero until post-election stake back-assignment runs.
type Edge struct {
	Candidate AccountID
	Load      rational.Rational128
	Weight    uint256.Int
}

// Voter is a single ballot-caster's election state: a budget (Stake) spread
// across Edges to the candidates it approved.
type Voter struct {
	Who   AccountID
	Stake uint64
	Load  rational.Rational128
	Edges []Edge
}

// Snapshot returns a deep value copy of v (including its edge slice), safe
// to retain past further mutation of the original.
func (v *Voter) Snapshot() Voter {
	cp := *v
	cp.Edges = make([]Edge, len(v.Edges))
	copy(cp.Edges, v.Edges)
	return cp
}

// EdgeTo returns a pointer to the edge naming candidate who, or nil if no
// such edge exists. Edges are created once at setup and never removed, so
// the returned pointer stays valid for the lifetime of the run.
func (v *Voter) EdgeTo(who AccountID) *Edge {
	for i := range v.Edges {
		if v.Edges[i].Candidate == who {
			return &v.Edges[i]
		}
	}
	return nil
}

// SnapshotCandidates returns value copies of every candidate pointer,
// suitable for embedding in a trace event.
func SnapshotCandidates(candidates []*Candidate) []Candidate {
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = c.Snapshot()
	}
	return out
}

// SnapshotVoters returns value copies of every voter pointer, suitable for
// embedding in a trace event.
func SnapshotVoters(voters []*Voter) []Voter {
	out := make([]Voter, len(voters))
	for i, v := range voters {
		out[i] = v.Snapshot()
	}
	return out
}

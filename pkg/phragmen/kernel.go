// Package phragmen implements the Sequential Phragmén election kernel: the
// per-round scoring, voter-driven score augmentation, election and load
// redistribution loop, plus the post-election stake back-assignment.
package phragmen

import (
	"errors"
	"sort"

	"github.com/holiman/uint256"

	"github.com/rbochenek/liberland-vote-scope/pkg/apperr"
	"github.com/rbochenek/liberland-vote-scope/pkg/election"
	"github.com/rbochenek/liberland-vote-scope/pkg/rational"
	"github.com/rbochenek/liberland-vote-scope/pkg/trace"
)

// ErrDegenerate is returned when to_elect > 0 but the candidate pool
// contains no candidate with positive approval stake, so nobody could ever
// be elected.
var ErrDegenerate = errors.New("phragmen: degenerate election: to_elect > 0 but no candidate has positive approval stake")

// VoterApprovals is one voter's projected ballot: a stake budget and the
// list of candidates it approves.
type VoterApprovals struct {
	Who       election.AccountID
	Stake     uint64
	Approvals []election.AccountID
}

// Inputs is the prepared input to a single election run (the output of
// input preparation, see package snapshot).
type Inputs struct {
	ToElect    int
	Candidates []election.AccountID
	Voters     []VoterApprovals
}

// Winner is one elected candidate, in final seat order.
type Winner struct {
	Who          election.AccountID
	Round        int
	ScorePerbill uint64
}

// Result is everything a single Run produces: the open question in
// spec.md §9 ("does the engine return winners, or candidates+trace, or
// all three?") is settled here in favor of all three, so that boundary
// adapters can pick whichever subset they need.
type Result struct {
	Winners    []Winner
	Candidates []*election.Candidate
	Trace      []trace.Event
	// Saturated flags that some arithmetic operation reached the 128-bit
	// saturation ceiling during the election phase for a candidate that
	// would otherwise have been in contention. Never fatal: the engine
	// still produces a best-effort result, mirroring on-chain behavior.
	Saturated bool
}

// Run executes one Sequential Phragmén election over in, tracing every
// internal state transition. See spec.md §4.3 for the algorithm.
func Run(in Inputs) (Result, error) {
	tr := trace.New(estimateTraceSize(in))
	tr.Start()

	order := make([]election.AccountID, 0, len(in.Candidates))
	byID := make(map[election.AccountID]*election.Candidate, len(in.Candidates))
	for _, who := range in.Candidates {
		if _, exists := byID[who]; exists {
			continue // DuplicateCandidate: first occurrence wins.
		}
		c := &election.Candidate{Who: who, Score: rational.Zero()}
		byID[who] = c
		order = append(order, who)
	}
	candidates := make([]*election.Candidate, len(order))
	for i, who := range order {
		candidates[i] = byID[who]
	}

	voters := make([]*election.Voter, 0, len(in.Voters))
	for _, va := range in.Voters {
		v := &election.Voter{Who: va.Who, Stake: va.Stake, Load: rational.Zero()}
		for _, appr := range va.Approvals {
			c, ok := byID[appr]
			if !ok {
				continue // UnknownApproval: silently dropped.
			}
			c.ApprovalStake = election.SatAddU128(c.ApprovalStake, *uint256.NewInt(va.Stake))
			v.Edges = append(v.Edges, election.Edge{Candidate: appr, Load: rational.Zero()})
		}
		voters = append(voters, v)
	}

	toElect := in.ToElect
	if toElect > len(candidates) {
		toElect = len(candidates)
	}

	tr.ToElect(toElect)

	saturated := false
	electedCount := 0

	for r := 1; r <= toElect; r++ {
		tr.RoundStart(r, election.SnapshotCandidates(candidates), election.SnapshotVoters(voters))

		// Phase A: base scores.
		tr.ComputeCandidateScores()
		for _, c := range candidates {
			if c.Elected {
				continue
			}
			from := c.Score
			if c.ApprovalStake.IsZero() {
				c.Score = rational.Infinity()
			} else {
				stake := c.ApprovalStake
				recip, err := rational.FromUint256(&stake).Reciprocal()
				if err != nil {
					c.Score = rational.Infinity()
				} else {
					c.Score = recip
				}
			}
			tr.CandidateScoreUpdated(c.Who, from, c.Score)
		}
		tr.CandidateScoresCalculated(election.SnapshotCandidates(candidates))

		// Phase B: voter augmentation.
		tr.IncCandidateScoresByVoters()
		for _, v := range voters {
			for i := range v.Edges {
				e := &v.Edges[i]
				c, ok := byID[e.Candidate]
				if !ok || c.Elected {
					continue
				}
				from := c.Score
				delta := v.Load.MulUint64(v.Stake)
				next := c.Score.Add(delta)
				if next.IsInfinite() && !from.IsInfinite() {
					saturated = true
				}
				c.Score = next
				tr.CandidateScoreUpdatedByVoter(v.Who, c.Who, from, c.Score)
			}
		}
		tr.CandidateScoresUpdatedByVoters(election.SnapshotCandidates(candidates))

		// Phase C: election.
		winner := electBest(candidates)
		if winner == nil {
			break
		}
		winner.Elected = true
		winner.Round = r
		electedCount++
		tr.CandidateElected(winner.Snapshot())

		// Phase D: load redistribution.
		for _, v := range voters {
			e := v.EdgeTo(winner.Who)
			if e == nil {
				continue
			}
			fromEdge := e.Load
			newEdgeLoad := winner.Score.Sub(v.Load)
			tr.VoterEdgeUpdated(v.Who, winner.Who, fromEdge, newEdgeLoad)
			e.Load = newEdgeLoad

			fromLoad := v.Load
			newLoad := v.Load.Add(newEdgeLoad)
			tr.VoterLoadUpdated(v.Who, fromLoad, newLoad)
			v.Load = newLoad
		}
	}

	tr.Finish()

	if in.ToElect > 0 && electedCount == 0 {
		err := apperr.Wrap(apperr.KindEngineDegenerate, "no candidate has positive approval stake", ErrDegenerate)
		return Result{Candidates: candidates, Trace: tr.Events()}, err
	}

	applyStakeBackAssignment(candidates, voters, byID)

	return Result{
		Winners:    buildWinners(candidates),
		Candidates: candidates,
		Trace:      tr.Events(),
		Saturated:  saturated,
	}, nil
}

// electBest returns the not-yet-elected candidate with the smallest finite
// score among those with positive approval stake, breaking ties by smaller
// AccountID. It returns nil if no such candidate exists.
func electBest(candidates []*election.Candidate) *election.Candidate {
	var best *election.Candidate
	for _, c := range candidates {
		if c.Elected || c.ApprovalStake.IsZero() || c.Score.IsInfinite() {
			continue
		}
		if best == nil {
			best = c
			continue
		}
		switch c.Score.Cmp(best.Score) {
		case -1:
			best = c
		case 0:
			if c.Who.Less(best.Who) {
				best = c
			}
		}
	}
	return best
}

// applyStakeBackAssignment implements spec.md §4.3's post-processing: every
// voter's stake is split across its elected edges in proportion to their
// load share, with any integer-division remainder assigned to the edge of
// the latest-elected approval (ties broken by smaller AccountID), and every
// elected candidate's backed stake set to the sum of its edges' weights.
func applyStakeBackAssignment(candidates []*election.Candidate, voters []*election.Voter, byID map[election.AccountID]*election.Candidate) {
	type electedEdge struct {
		edge *election.Edge
		cand *election.Candidate
	}

	for _, v := range voters {
		var elected []electedEdge
		for i := range v.Edges {
			e := &v.Edges[i]
			c, ok := byID[e.Candidate]
			if !ok || !c.Elected {
				continue
			}
			elected = append(elected, electedEdge{edge: e, cand: c})
		}
		if len(elected) == 0 {
			continue
		}

		var sum uint256.Int
		for _, ee := range elected {
			if v.Load.IsZero() {
				ee.edge.Weight = uint256.Int{}
				continue
			}
			recip, err := v.Load.Reciprocal()
			if err != nil {
				ee.edge.Weight = uint256.Int{}
				continue
			}
			share := rational.FromUint64(v.Stake).Mul(ee.edge.Load).Mul(recip)
			ee.edge.Weight = *share.FloorUint256()
			sum = election.SatAddU128(sum, ee.edge.Weight)
		}

		stake := *uint256.NewInt(v.Stake)
		if sum.Lt(&stake) {
			remainder := new(uint256.Int).Sub(&stake, &sum)
			latest := elected[0]
			for _, ee := range elected[1:] {
				if ee.cand.Round > latest.cand.Round ||
					(ee.cand.Round == latest.cand.Round && ee.cand.Who.Less(latest.cand.Who)) {
					latest = ee
				}
			}
			latest.edge.Weight = election.SatAddU128(latest.edge.Weight, *remainder)
		}
	}

	for _, c := range candidates {
		if !c.Elected {
			continue
		}
		var total uint256.Int
		for _, v := range voters {
			e := v.EdgeTo(c.Who)
			if e == nil {
				continue
			}
			total = election.SatAddU128(total, e.Weight)
		}
		c.BackedStake = total
	}
}

func buildWinners(candidates []*election.Candidate) []Winner {
	var elected []*election.Candidate
	for _, c := range candidates {
		if c.Elected {
			elected = append(elected, c)
		}
	}
	sort.Slice(elected, func(i, j int) bool {
		if elected[i].Round != elected[j].Round {
			return elected[i].Round < elected[j].Round
		}
		return elected[i].Who.Less(elected[j].Who)
	})
	out := make([]Winner, len(elected))
	for i, c := range elected {
		out[i] = Winner{Who: c.Who, Round: c.Round, ScorePerbill: rational.ToPerbill(c.Score)}
	}
	return out
}

// estimateTraceSize sizes the Tracer's backing slice so normal runs never
// reallocate: a few run-level markers, plus per round 6 fixed markers, one
// event per candidate (Phase A) and up to two per voter-edge (Phase B and D).
func estimateTraceSize(in Inputs) int {
	edges := 0
	for _, v := range in.Voters {
		edges += len(v.Approvals)
	}
	rounds := in.ToElect
	if rounds > len(in.Candidates) {
		rounds = len(in.Candidates)
	}
	if rounds < 0 {
		rounds = 0
	}
	return 4 + rounds*(6+len(in.Candidates)+2*edges)
}

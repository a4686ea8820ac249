// Package result assembles the engine's raw output (winners, candidate
// records, trace) into the presentation-ready structure both boundary
// adapters publish.
package result

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/rbochenek/liberland-vote-scope/pkg/datasource"
	"github.com/rbochenek/liberland-vote-scope/pkg/election"
	"github.com/rbochenek/liberland-vote-scope/pkg/identity"
	"github.com/rbochenek/liberland-vote-scope/pkg/phragmen"
	"github.com/rbochenek/liberland-vote-scope/pkg/rational"
	"github.com/rbochenek/liberland-vote-scope/pkg/trace"
)

// Role classifies a candidate's outcome.
type Role int

const (
	RoleNotElected Role = iota
	RoleMember
	RoleRunnerUp
)

// String names a Role for JSON and Markdown rendering, matching the wire
// names spec.md §6 pins ("Member", "RunnerUp", "NotElected").
func (r Role) String() string {
	switch r {
	case RoleMember:
		return "Member"
	case RoleRunnerUp:
		return "RunnerUp"
	default:
		return "NotElected"
	}
}

// MarshalJSON renders Role as its capitalized wire name.
func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// U128 renders a 128-bit quantity as a decimal string in JSON, since JSON
// numbers cannot losslessly carry values beyond 2^53.
type U128 uint256.Int

func fromUint256(v uint256.Int) U128 { return U128(v) }

// MarshalJSON renders u as a quoted decimal string.
func (u U128) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}

// String renders u in decimal.
func (u U128) String() string {
	v := uint256.Int(u)
	return v.Dec()
}

// Account is an account identifier with its optionally-resolved display
// name.
type Account struct {
	ID          election.AccountID `json:"id"`
	DisplayName string             `json:"displayName,omitempty"`
}

// CandidateResult is one candidate's final classification.
type CandidateResult struct {
	Account
	Role         Role    `json:"role"`
	FinalScore   float64 `json:"finalScore"`
	InitialStake U128    `json:"initialStake"`
	FinalStake   U128    `json:"finalStake"`
}

// CandidateSummary is a pool entry, independent of its final outcome.
type CandidateSummary struct {
	Account
	InitialStake U128 `json:"initialStake"`
}

// VoterSummary is one voter's ballot.
type VoterSummary struct {
	Account
	Stake uint64               `json:"stake"`
	Votes []election.AccountID `json:"votes"`
}

// CandidateScore is one candidate's standing at a round boundary.
type CandidateScore struct {
	Account
	ScorePerbill uint64 `json:"scorePerbill"`
	Role         Role   `json:"role"`
}

// Round is one election round's candidate standings, taken at the
// RoundStart trace boundary.
type Round struct {
	Round  int              `json:"round"`
	Scores []CandidateScore `json:"scores"`
}

// CouncilSeats is the chain's configured seat allocation.
type CouncilSeats struct {
	Members   uint32 `json:"members"`
	RunnersUp uint32 `json:"runnersUp"`
}

// ElectionData is everything about the election itself, nested under
// ElectionResults.ElectionData on the wire (spec.md §6; original_source's
// ApiElectionResults nests the same way).
type ElectionData struct {
	CouncilSeats   CouncilSeats       `json:"councilSeats"`
	ElectionRounds uint32             `json:"electionRounds"`
	FinalResults   []CandidateResult  `json:"finalResults"`
	Candidates     []CandidateSummary `json:"candidates"`
	Voters         []VoterSummary     `json:"voters"`
	Rounds         []Round            `json:"rounds"`
	Saturated      bool               `json:"saturated,omitempty"`
}

// ElectionResults is the fully assembled, presentation-ready structure.
type ElectionResults struct {
	BlockHash    datasource.BlockHash `json:"blockHash"`
	ElectionData ElectionData         `json:"electionData"`
}

// Assemble builds an ElectionResults from a chain snapshot and a kernel
// run, per spec.md §4.5.
func Assemble(snap datasource.Snapshot, in phragmen.Inputs, run phragmen.Result) ElectionResults {
	roleByID := classify(in, run.Winners, snap.DesiredMembers, snap.DesiredRunnersUp)

	out := ElectionResults{
		BlockHash: snap.BlockHash,
		ElectionData: ElectionData{
			CouncilSeats: CouncilSeats{
				Members:   snap.DesiredMembers,
				RunnersUp: snap.DesiredRunnersUp,
			},
			ElectionRounds: snap.ElectionRounds,
			Saturated:      run.Saturated,
		},
	}

	for _, c := range run.Candidates {
		role := roleByID[c.Who]
		out.ElectionData.FinalResults = append(out.ElectionData.FinalResults, CandidateResult{
			Account:      Account{ID: c.Who},
			Role:         role,
			FinalScore:   scoreAsFloat(c.Score),
			InitialStake: fromUint256(c.ApprovalStake),
			FinalStake:   fromUint256(c.BackedStake),
		})
		out.ElectionData.Candidates = append(out.ElectionData.Candidates, CandidateSummary{
			Account:      Account{ID: c.Who},
			InitialStake: fromUint256(c.ApprovalStake),
		})
	}

	for _, va := range in.Voters {
		out.ElectionData.Voters = append(out.ElectionData.Voters, VoterSummary{
			Account: Account{ID: va.Who},
			Stake:   va.Stake,
			Votes:   va.Approvals,
		})
	}

	out.ElectionData.Rounds = buildRounds(run.Trace, roleByID)

	return out
}

// ResolveIdentities walks the structure, filling DisplayName for every
// account the resolver can name. It is a post-walk over an already
// assembled ElectionResults, never part of Assemble itself: identity
// resolution is optional and the engine output must be presentable
// without it.
func ResolveIdentities(ctx context.Context, res *ElectionResults, resolver identity.Resolver) {
	resolve := func(acc *Account) {
		if name, ok := resolver.DisplayNameOf(ctx, acc.ID); ok {
			acc.DisplayName = name
		}
	}
	data := &res.ElectionData
	for i := range data.FinalResults {
		resolve(&data.FinalResults[i].Account)
	}
	for i := range data.Candidates {
		resolve(&data.Candidates[i].Account)
	}
	for i := range data.Voters {
		resolve(&data.Voters[i].Account)
	}
	for i := range data.Rounds {
		for j := range data.Rounds[i].Scores {
			resolve(&data.Rounds[i].Scores[j].Account)
		}
	}
}

// classify assigns each candidate its eventual role, from the kernel's
// elected-candidate round order: the first desiredMembers elected (by
// round, then AccountID) become Members, the next desiredRunnersUp become
// RunnersUp, and the rest are NotElected.
func classify(in phragmen.Inputs, winners []phragmen.Winner, desiredMembers, desiredRunnersUp uint32) map[election.AccountID]Role {
	roles := make(map[election.AccountID]Role, len(in.Candidates))
	for _, who := range in.Candidates {
		roles[who] = RoleNotElected
	}
	for i, w := range winners {
		if uint32(i) < desiredMembers {
			roles[w.Who] = RoleMember
		} else if uint64(i) < uint64(desiredMembers)+uint64(desiredRunnersUp) {
			roles[w.Who] = RoleRunnerUp
		}
	}
	return roles
}

func scoreAsFloat(score rational.Rational128) float64 {
	return score.Float64()
}

func buildRounds(events []trace.Event, roleByID map[election.AccountID]Role) []Round {
	var rounds []Round
	for _, e := range events {
		if e.Kind != trace.KindRoundStart {
			continue
		}
		r := Round{Round: e.Round}
		for _, c := range e.RoundCandidates {
			r.Scores = append(r.Scores, CandidateScore{
				Account:      Account{ID: c.Who},
				ScorePerbill: rational.ToPerbill(c.Score),
				Role:         roleByID[c.Who],
			})
		}
		rounds = append(rounds, r)
	}
	return rounds
}

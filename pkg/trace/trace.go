// Package trace defines the ordered, append-only event stream the Phragmén
// kernel emits, and the Tracer that collects it.
//
// A Tracer is a plain owned buffer threaded through a single engine run: no
// event survives the run's lifetime except as a value copy a consumer took
// explicitly (spec.md §9, "trace as a side channel").
package trace

import (
	"github.com/rbochenek/liberland-vote-scope/pkg/election"
	"github.com/rbochenek/liberland-vote-scope/pkg/rational"
)

// Kind tags which variant an Event carries.
type Kind int

// Event kinds, in the order they are first likely to appear in a run.
const (
	KindStart Kind = iota
	KindToElect
	KindRoundStart
	KindComputeCandidateScores
	KindCandidateScoreUpdated
	KindCandidateScoresCalculated
	KindIncCandidateScoresByVoters
	KindCandidateScoreUpdatedByVoter
	KindCandidateScoresUpdatedByVoters
	KindCandidateElected
	KindVoterEdgeUpdated
	KindVoterLoadUpdated
	KindFinish
)

// String names a Kind for logging and Markdown rendering.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "Start"
	case KindToElect:
		return "ToElect"
	case KindRoundStart:
		return "RoundStart"
	case KindComputeCandidateScores:
		return "ComputeCandidateScores"
	case KindCandidateScoreUpdated:
		return "CandidateScoreUpdated"
	case KindCandidateScoresCalculated:
		return "CandidateScoresCalculated"
	case KindIncCandidateScoresByVoters:
		return "IncCandidateScoresByVoters"
	case KindCandidateScoreUpdatedByVoter:
		return "CandidateScoreUpdatedByVoter"
	case KindCandidateScoresUpdatedByVoters:
		return "CandidateScoresUpdatedByVoters"
	case KindCandidateElected:
		return "CandidateElected"
	case KindVoterEdgeUpdated:
		return "VoterEdgeUpdated"
	case KindVoterLoadUpdated:
		return "VoterLoadUpdated"
	case KindFinish:
		return "Finish"
	default:
		return "Unknown"
	}
}

// LoadUpdate records a voter's load changing from one value to another.
type LoadUpdate struct {
	Who     election.AccountID
	Load    rational.Rational128
	NewLoad rational.Rational128
}

// EdgeLoadUpdate records a single voter-edge's load changing.
type EdgeLoadUpdate struct {
	Voter     election.AccountID
	Candidate election.AccountID
	Load      rational.Rational128
	NewLoad   rational.Rational128
}

// CandidateScoreUpdate records a candidate's base score changing in Phase A.
type CandidateScoreUpdate struct {
	Who      election.AccountID
	Score    rational.Rational128
	NewScore rational.Rational128
}

// CandidateScoreUpdateByVoter records a candidate's score changing due to
// one voter's augmentation in Phase B.
type CandidateScoreUpdateByVoter struct {
	Voter     election.AccountID
	Candidate election.AccountID
	Score     rational.Rational128
	NewScore  rational.Rational128
}

// Event is a single emitted trace point. Only the payload fields that belong
// to Kind are populated (marker kinds such as Start carry none); they are a
// value snapshot taken at the moment of emission, immune to subsequent
// mutation of the live state.
type Event struct {
	Kind Kind

	ToElect int

	Round          int
	RoundCandidates []election.Candidate
	RoundVoters     []election.Voter

	ScoresSnapshot []election.Candidate

	ElectedCandidate election.Candidate

	LoadUpdate          *LoadUpdate
	EdgeLoadUpdate      *EdgeLoadUpdate
	CandidateScoreUpd   *CandidateScoreUpdate
	CandidateScoreByVtr *CandidateScoreUpdateByVoter
}

// Tracer is an ordered, append-only collector of Events.
type Tracer struct {
	events []Event
}

// New returns an empty Tracer with room for n events, a size hint a caller
// can derive from the expected number of rounds and voter/candidate counts.
func New(sizeHint int) *Tracer {
	return &Tracer{events: make([]Event, 0, sizeHint)}
}

func (t *Tracer) emit(e Event) { t.events = append(t.events, e) }

// Start emits the run-start marker.
func (t *Tracer) Start() { t.emit(Event{Kind: KindStart}) }

// Finish emits the run-end marker.
func (t *Tracer) Finish() { t.emit(Event{Kind: KindFinish}) }

// ToElect emits the computed seat count for this run.
func (t *Tracer) ToElect(n int) { t.emit(Event{Kind: KindToElect, ToElect: n}) }

// RoundStart emits the round-boundary marker, carrying a snapshot of every
// candidate and voter as they stood before Phase A of round r.
func (t *Tracer) RoundStart(r int, candidates []election.Candidate, voters []election.Voter) {
	t.emit(Event{Kind: KindRoundStart, Round: r, RoundCandidates: candidates, RoundVoters: voters})
}

// ComputeCandidateScores emits the Phase A start marker.
func (t *Tracer) ComputeCandidateScores() { t.emit(Event{Kind: KindComputeCandidateScores}) }

// CandidateScoreUpdated emits one candidate's Phase A score change.
func (t *Tracer) CandidateScoreUpdated(who election.AccountID, from, to rational.Rational128) {
	t.emit(Event{Kind: KindCandidateScoreUpdated, CandidateScoreUpd: &CandidateScoreUpdate{
		Who: who, Score: from, NewScore: to,
	}})
}

// CandidateScoresCalculated emits the Phase A end marker with a snapshot of
// every candidate's score at that point.
func (t *Tracer) CandidateScoresCalculated(snapshot []election.Candidate) {
	t.emit(Event{Kind: KindCandidateScoresCalculated, ScoresSnapshot: snapshot})
}

// IncCandidateScoresByVoters emits the Phase B start marker.
func (t *Tracer) IncCandidateScoresByVoters() { t.emit(Event{Kind: KindIncCandidateScoresByVoters}) }

// CandidateScoreUpdatedByVoter emits one voter's Phase B contribution to a
// candidate's score.
func (t *Tracer) CandidateScoreUpdatedByVoter(voter, candidate election.AccountID, from, to rational.Rational128) {
	t.emit(Event{Kind: KindCandidateScoreUpdatedByVoter, CandidateScoreByVtr: &CandidateScoreUpdateByVoter{
		Voter: voter, Candidate: candidate, Score: from, NewScore: to,
	}})
}

// CandidateScoresUpdatedByVoters emits the Phase B end marker with a
// snapshot of every candidate's score at that point.
func (t *Tracer) CandidateScoresUpdatedByVoters(snapshot []election.Candidate) {
	t.emit(Event{Kind: KindCandidateScoresUpdatedByVoters, ScoresSnapshot: snapshot})
}

// CandidateElected emits the Phase C winner, with a snapshot of its state
// immediately after being marked elected.
func (t *Tracer) CandidateElected(winner election.Candidate) {
	t.emit(Event{Kind: KindCandidateElected, ElectedCandidate: winner})
}

// VoterEdgeUpdated emits one voter-edge's Phase D load change.
func (t *Tracer) VoterEdgeUpdated(voter, candidate election.AccountID, from, to rational.Rational128) {
	t.emit(Event{Kind: KindVoterEdgeUpdated, EdgeLoadUpdate: &EdgeLoadUpdate{
		Voter: voter, Candidate: candidate, Load: from, NewLoad: to,
	}})
}

// VoterLoadUpdated emits one voter's Phase D total-load change.
func (t *Tracer) VoterLoadUpdated(who election.AccountID, from, to rational.Rational128) {
	t.emit(Event{Kind: KindVoterLoadUpdated, LoadUpdate: &LoadUpdate{
		Who: who, Load: from, NewLoad: to,
	}})
}

// Events returns the collected event stream. The returned slice shares the
// Tracer's backing array: writes through it are visible to later Events
// calls on the same Tracer.
func (t *Tracer) Events() []Event {
	return t.events
}

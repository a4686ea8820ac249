package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbochenek/liberland-vote-scope/pkg/datasource"
	"github.com/rbochenek/liberland-vote-scope/pkg/election"
	"github.com/rbochenek/liberland-vote-scope/pkg/phragmen"
	"github.com/rbochenek/liberland-vote-scope/pkg/result"
	"github.com/rbochenek/liberland-vote-scope/pkg/snapshot"
)

func acct(b byte) election.AccountID {
	var id election.AccountID
	id[len(id)-1] = b
	return id
}

func TestGenerateIncludesAllSections(t *testing.T) {
	a := acct(1)
	voter := acct(10)

	snap := datasource.Snapshot{
		DesiredMembers:   1,
		DesiredRunnersUp: 0,
		ElectionRounds:   3,
		Candidates:       []datasource.CandidateEntry{{Who: a}},
		Voting: []datasource.VotingRecord{
			{Who: voter, Votes: []election.AccountID{a}},
		},
	}

	in := snapshot.Prepare(snap)
	// snapshot.Prepare narrows u128 stake to u64; force a nonzero stake
	// directly since the fixture above leaves it at its zero value.
	in.Voters[0].Stake = 10

	run, err := phragmen.Run(in)
	require.NoError(t, err)

	res := result.Assemble(snap, in, run)
	report := Generate(snap, res, run.Trace)

	require.Contains(t, report, "## Before elections")
	require.Contains(t, report, "Elections so far: 3")
	require.Contains(t, report, "## Phragmen traces")
	require.Contains(t, report, "## Election results")
	require.True(t, strings.Contains(report, a.String()))
}

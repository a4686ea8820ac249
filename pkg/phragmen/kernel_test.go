package phragmen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbochenek/liberland-vote-scope/pkg/election"
)

func acct(b byte) election.AccountID {
	var id election.AccountID
	id[len(id)-1] = b
	return id
}

func TestRunElectsExactlyToElectWhenPossible(t *testing.T) {
	a, b, c := acct(1), acct(2), acct(3)
	v1, v2, v3 := acct(10), acct(11), acct(12)

	in := Inputs{
		ToElect:    2,
		Candidates: []election.AccountID{a, b, c},
		Voters: []VoterApprovals{
			{Who: v1, Stake: 100, Approvals: []election.AccountID{a}},
			{Who: v2, Stake: 100, Approvals: []election.AccountID{b}},
			{Who: v3, Stake: 10, Approvals: []election.AccountID{c}},
		},
	}

	res, err := Run(in)
	require.NoError(t, err)
	require.Len(t, res.Winners, 2)
	require.False(t, res.Saturated)

	winners := map[election.AccountID]bool{}
	for _, w := range res.Winners {
		winners[w.Who] = true
	}
	require.True(t, winners[a])
	require.True(t, winners[b])
	require.False(t, winners[c])
}

func TestRunTieBreaksByAccountID(t *testing.T) {
	lo, hi := acct(1), acct(2)
	voter := acct(50)

	in := Inputs{
		ToElect:    1,
		Candidates: []election.AccountID{hi, lo},
		Voters: []VoterApprovals{
			{Who: voter, Stake: 100, Approvals: []election.AccountID{lo, hi}},
		},
	}

	res, err := Run(in)
	require.NoError(t, err)
	require.Len(t, res.Winners, 1)
	require.Equal(t, lo, res.Winners[0].Who)
}

func TestRunDegenerateWhenNoApprovals(t *testing.T) {
	a, b := acct(1), acct(2)

	in := Inputs{
		ToElect:    2,
		Candidates: []election.AccountID{a, b},
		Voters:     nil,
	}

	res, err := Run(in)
	require.ErrorIs(t, err, ErrDegenerate)
	require.Empty(t, res.Winners)
}

func TestRunZeroToElectIsNotDegenerate(t *testing.T) {
	a := acct(1)

	in := Inputs{
		ToElect:    0,
		Candidates: []election.AccountID{a},
		Voters:     nil,
	}

	res, err := Run(in)
	require.NoError(t, err)
	require.Empty(t, res.Winners)
}

func TestRunElectsFewerThanToElectWhenCandidatesRunOut(t *testing.T) {
	a := acct(1)
	voter := acct(50)

	in := Inputs{
		ToElect:    5,
		Candidates: []election.AccountID{a},
		Voters: []VoterApprovals{
			{Who: voter, Stake: 10, Approvals: []election.AccountID{a}},
		},
	}

	res, err := Run(in)
	require.NoError(t, err)
	require.Len(t, res.Winners, 1)
	require.Equal(t, a, res.Winners[0].Who)
}

func TestRunConservesStakeAcrossBackedStakes(t *testing.T) {
	a, b := acct(1), acct(2)
	v1, v2 := acct(10), acct(11)

	in := Inputs{
		ToElect:    2,
		Candidates: []election.AccountID{a, b},
		Voters: []VoterApprovals{
			{Who: v1, Stake: 50, Approvals: []election.AccountID{a, b}},
			{Who: v2, Stake: 30, Approvals: []election.AccountID{a, b}},
		},
	}

	res, err := Run(in)
	require.NoError(t, err)
	require.Len(t, res.Winners, 2)

	var total uint64
	for _, c := range res.Candidates {
		if c.Elected {
			total += c.BackedStake.Uint64()
		}
	}
	require.Equal(t, uint64(80), total)
}

func TestRunDropsUnknownApprovals(t *testing.T) {
	a := acct(1)
	ghost := acct(99)
	voter := acct(10)

	in := Inputs{
		ToElect:    1,
		Candidates: []election.AccountID{a},
		Voters: []VoterApprovals{
			{Who: voter, Stake: 10, Approvals: []election.AccountID{ghost, a}},
		},
	}

	res, err := Run(in)
	require.NoError(t, err)
	require.Len(t, res.Winners, 1)
	require.Equal(t, a, res.Winners[0].Who)
}

func TestRunDedupsCandidates(t *testing.T) {
	a := acct(1)
	voter := acct(10)

	in := Inputs{
		ToElect:    1,
		Candidates: []election.AccountID{a, a},
		Voters: []VoterApprovals{
			{Who: voter, Stake: 10, Approvals: []election.AccountID{a}},
		},
	}

	res, err := Run(in)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	require.Len(t, res.Winners, 1)
}

func TestRunTraceStartsAndFinishes(t *testing.T) {
	a := acct(1)
	voter := acct(10)

	in := Inputs{
		ToElect:    1,
		Candidates: []election.AccountID{a},
		Voters: []VoterApprovals{
			{Who: voter, Stake: 10, Approvals: []election.AccountID{a}},
		},
	}

	res, err := Run(in)
	require.NoError(t, err)
	require.NotEmpty(t, res.Trace)
	require.Equal(t, res.Trace[0].Kind.String(), "Start")
	require.Equal(t, res.Trace[len(res.Trace)-1].Kind.String(), "Finish")
}

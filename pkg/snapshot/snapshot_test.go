package snapshot

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/rbochenek/liberland-vote-scope/pkg/datasource"
	"github.com/rbochenek/liberland-vote-scope/pkg/election"
)

func acct(b byte) election.AccountID {
	var id election.AccountID
	id[len(id)-1] = b
	return id
}

func TestPrepareMergesPoolsAndDedupsFirstWins(t *testing.T) {
	a, b, c := acct(1), acct(2), acct(3)

	snap := datasource.Snapshot{
		DesiredMembers:   2,
		DesiredRunnersUp: 1,
		Members:          []datasource.SeatHolder{{Who: a}},
		RunnersUp:        []datasource.SeatHolder{{Who: b}},
		Candidates:       []datasource.CandidateEntry{{Who: a}, {Who: c}},
	}

	in := Prepare(snap)
	require.Equal(t, 3, in.ToElect)
	require.Equal(t, []election.AccountID{a, b, c}, in.Candidates)
}

func TestPrepareProjectsVoters(t *testing.T) {
	a := acct(1)
	voter := acct(10)

	snap := datasource.Snapshot{
		Voting: []datasource.VotingRecord{
			{Who: voter, Stake: *uint256.NewInt(500), Votes: []election.AccountID{a}},
		},
	}

	in := Prepare(snap)
	require.Len(t, in.Voters, 1)
	require.Equal(t, uint64(500), in.Voters[0].Stake)
	require.Equal(t, []election.AccountID{a}, in.Voters[0].Approvals)
}

func TestPrepareToElectSaturatesAtUint32Max(t *testing.T) {
	snap := datasource.Snapshot{
		DesiredMembers:   4294967295,
		DesiredRunnersUp: 10,
	}
	in := Prepare(snap)
	require.Equal(t, int(^uint32(0)), in.ToElect)
}

func TestPrepareClampsOversizedStakeToUint64Max(t *testing.T) {
	voter := acct(10)
	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 100)

	snap := datasource.Snapshot{
		Voting: []datasource.VotingRecord{
			{Who: voter, Stake: *huge},
		},
	}

	in := Prepare(snap)
	require.Equal(t, uint64(1<<64-1), in.Voters[0].Stake)
}

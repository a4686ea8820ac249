package election

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestSatAddU128SaturatesAtMax(t *testing.T) {
	a := *maxU128
	b := *uint256.NewInt(5)
	sum := SatAddU128(a, b)
	require.Equal(t, *maxU128, sum)
}

func TestSatAddU128AddsNormally(t *testing.T) {
	a := *uint256.NewInt(2)
	b := *uint256.NewInt(3)
	sum := SatAddU128(a, b)
	require.Equal(t, *uint256.NewInt(5), sum)
}

func TestVoterSnapshotIsIndependentOfOriginal(t *testing.T) {
	var who AccountID
	who[0] = 1
	v := &Voter{Who: who, Stake: 10, Edges: []Edge{{Candidate: who}}}

	snap := v.Snapshot()
	v.Edges[0].Candidate[1] = 9

	require.NotEqual(t, v.Edges[0].Candidate, snap.Edges[0].Candidate)
}

func TestVoterEdgeToFindsExistingEdge(t *testing.T) {
	var a, b AccountID
	a[0], b[0] = 1, 2
	v := &Voter{Edges: []Edge{{Candidate: a}, {Candidate: b}}}

	e := v.EdgeTo(b)
	require.NotNil(t, e)
	require.Equal(t, b, e.Candidate)

	var c AccountID
	c[0] = 3
	require.Nil(t, v.EdgeTo(c))
}

func TestCandidateSnapshotIsValueCopy(t *testing.T) {
	c := &Candidate{Who: AccountID{1}}
	snap := c.Snapshot()
	c.Elected = true
	require.False(t, snap.Elected)
}

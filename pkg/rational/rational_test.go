package rational

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroAndFromUint64(t *testing.T) {
	z := Zero()
	require.Equal(t, uint64(0), z.Numerator().Uint64())
	require.Equal(t, uint64(1), z.Denominator().Uint64())

	x := FromUint64(42)
	require.Equal(t, uint64(42), x.Numerator().Uint64())
	require.Equal(t, uint64(1), x.Denominator().Uint64())
}

func TestAdd(t *testing.T) {
	a := FromUint64(1) // 1/1
	half, err := FromUint64(2).Reciprocal()
	require.NoError(t, err)

	sum := half.Add(half) // 1/2 + 1/2 = 1 (as 4/4 before reduction, value-equal to 1/1)
	require.True(t, sum.Equal(sum))
	require.Equal(t, 0, sum.Cmp(a))
}

func TestAddSaturates(t *testing.T) {
	big := FromUint256(maxU128)
	sum := big.Add(big)
	require.True(t, sum.IsInfinite())
}

func TestMulUint64Saturates(t *testing.T) {
	big := FromUint256(maxU128)
	prod := big.MulUint64(2)
	require.True(t, prod.IsInfinite())
}

func TestSubClampsAtZero(t *testing.T) {
	a := FromUint64(1)
	b := FromUint64(2)
	diff := a.Sub(b)
	require.Equal(t, 0, diff.Cmp(Zero()))
}

func TestReciprocalFailsOnZero(t *testing.T) {
	_, err := Zero().Reciprocal()
	require.Error(t, err)
}

func TestCmpOrdersFiniteBeforeInfinite(t *testing.T) {
	finite := FromUint64(1000)
	inf := infinity()
	require.True(t, finite.LessThan(inf))
	require.Equal(t, 0, inf.Cmp(infinity()))
}

func TestToPerbillRoundsAndClamps(t *testing.T) {
	half, err := FromUint64(2).Reciprocal()
	require.NoError(t, err)
	require.Equal(t, uint64(500_000_000), ToPerbill(half))

	require.Equal(t, uint64(1_000_000_000), ToPerbill(infinity()))
	require.Equal(t, uint64(0), ToPerbill(Zero()))
}

func TestToPerbillExactThird(t *testing.T) {
	third, err := FromUint64(3).Reciprocal()
	require.NoError(t, err)
	// 1e9/3 = 333333333.33... rounds to 333333333.
	require.Equal(t, uint64(333_333_333), ToPerbill(third))
}

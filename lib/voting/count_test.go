package voting

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"boscoin.io/congress/lib/common"
)

func TestPercentageMetMajority(t *testing.T) {
	require.True(t, PercentageMet(51, 100, Majority{}))
	require.False(t, PercentageMet(50, 100, Majority{}))
	require.True(t, PercentageMet(1, 1, Majority{}))
	require.False(t, PercentageMet(0, 0, Majority{}))
}

func TestPercentageMetPercent(t *testing.T) {
	half := MustPercent("0.5")
	require.True(t, PercentageMet(50, 100, half))
	require.False(t, PercentageMet(49, 100, half))

	// 1/3 of the votes meets a threshold of 0.333...
	third := MustPercent("0.333333333333333333")
	require.True(t, PercentageMet(1, 3, third))
	require.False(t, PercentageMet(0, 3, third))

	all := MustPercent("1")
	require.True(t, PercentageMet(100, 100, all))
	require.False(t, PercentageMet(99, 100, all))

	// no overflow at the edges
	require.True(t, PercentageMet(common.MaximumPower, common.MaximumPower, all))
	require.False(t, PercentageMet(common.MaximumPower-1, common.MaximumPower, all))
	require.True(t, PercentageMet(common.MaximumPower, common.MaximumPower, Majority{}))
}

func TestPercentageFailed(t *testing.T) {
	require.True(t, PercentageFailed(50, 100, Majority{}))
	require.False(t, PercentageFailed(49, 100, Majority{}))

	half := MustPercent("0.5")
	require.True(t, PercentageFailed(51, 100, half))
	require.False(t, PercentageFailed(50, 100, half))

	require.True(t, PercentageFailed(0, 0, Majority{}))
	require.True(t, PercentageFailed(0, 0, half))
}

func TestPercentageFailedHundredPercent(t *testing.T) {
	all := MustPercent("1")

	require.False(t, PercentageFailed(0, 100, all))
	require.True(t, PercentageFailed(1, 100, all))
	require.True(t, PercentageFailed(0, 0, all))
}

func TestPercentageMetProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	fractional := new(big.Int).SetUint64(common.DecimalFractional)

	properties.Property("met matches exact rational comparison", prop.ForAll(
		func(count, total, atomics uint64) bool {
			threshold := Percent{Value: common.NewDecimalFromAtomics(atomics)}
			met := PercentageMet(common.Power(count), common.Power(total), threshold)

			if total == 0 {
				return !met
			}

			lhs := new(big.Int).Mul(new(big.Int).SetUint64(count), fractional)
			rhs := new(big.Int).Mul(new(big.Int).SetUint64(total), new(big.Int).SetUint64(atomics))

			return met == (lhs.Cmp(rhs) >= 0)
		},
		gen.UInt64(),
		gen.UInt64(),
		gen.UInt64Range(1, common.DecimalFractional),
	))

	properties.Property("met and failed are exclusive for the same split", prop.ForAll(
		func(yes, no uint64, atomics uint64) bool {
			total := yes + no
			if total < yes {
				return true
			}

			threshold := Percent{Value: common.NewDecimalFromAtomics(atomics)}
			met := PercentageMet(common.Power(yes), common.Power(total), threshold)
			failed := PercentageFailed(common.Power(no), common.Power(total), threshold)

			return !(met && failed)
		},
		gen.UInt64Range(0, 1<<40),
		gen.UInt64Range(0, 1<<40),
		gen.UInt64Range(1, common.DecimalFractional),
	))

	properties.TestingRun(t)
}

package voting

import (
	"fmt"

	"github.com/holiman/uint256"

	"boscoin.io/congress/lib/common"
)

// products are taken in 256 bits, so `uint64 * uint64` can never overflow and
// no division is ever needed.
func mul(a common.Power, b uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(uint64(a)), uint256.NewInt(b))
}

// PercentageMet reports whether `count` out of `total` reaches the threshold.
// Nothing is met when there is nothing to vote with.
func PercentageMet(count, total common.Power, threshold PercentageThreshold) bool {
	if total.IsZero() {
		return false
	}

	switch t := threshold.(type) {
	case Majority:
		return mul(count, 2).Gt(mul(total, 1))
	case Percent:
		return !mul(count, common.DecimalFractional).Lt(mul(total, t.Value.Atomics()))
	default:
		panic(fmt.Errorf("unknown percentage threshold: %T", threshold))
	}
}

// PercentageFailed reports whether `count` dissenting votes out of `total`
// make the pass threshold unreachable. It is not the negation of
// `PercentageMet` with the complementary fraction: a 100% pass threshold
// would become a 0% failure bar, which zero dissenting votes already meet.
// For 100% the proposal fails on no eligible votes or a single dissent.
func PercentageFailed(count, total common.Power, passThreshold PercentageThreshold) bool {
	if total.IsZero() {
		return true
	}

	switch t := passThreshold.(type) {
	case Majority:
		return !mul(count, 2).Lt(mul(total, 1))
	case Percent:
		if IsHundredPercent(t) {
			return !count.IsZero()
		}
		return mul(count, common.DecimalFractional).Gt(mul(total, t.Value.OneMinus().Atomics()))
	default:
		panic(fmt.Errorf("unknown percentage threshold: %T", passThreshold))
	}
}

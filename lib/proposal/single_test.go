package proposal

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/voting"
)

var (
	beforeExpiration = common.BlockInfo{Height: 10}
	atExpiration     = common.BlockInfo{Height: 100}
)

func newSingle(threshold voting.Threshold, total common.Power, votes voting.Votes) *Proposal {
	return &Proposal{
		Header: Header{
			ID:         1,
			Expiration: common.ExpiresAtHeight(atExpiration.Height),
			TotalPower: total,
			Status:     Open{},
		},
		Threshold: threshold,
		Votes:     votes,
	}
}

func TestSingleZeroTotalPower(t *testing.T) {
	thresholds := []voting.Threshold{
		voting.AbsoluteCount{Threshold: 1},
		voting.AbsolutePercentage{Percentage: voting.Majority{}},
		voting.AbsolutePercentage{Percentage: voting.MustPercent("1")},
		voting.ThresholdQuorum{Threshold: voting.Majority{}, Quorum: voting.MustPercent("0.2")},
	}

	for _, threshold := range thresholds {
		p := newSingle(threshold, 0, voting.Votes{})
		for _, block := range []common.BlockInfo{beforeExpiration, atExpiration} {
			require.False(t, p.IsPassed(block), threshold.String())
			require.True(t, p.IsRejected(block), threshold.String())
		}
	}
}

func TestSingleAbsolutePercentageMajority(t *testing.T) {
	votes := voting.Votes{Yes: 7, No: 4, Abstain: 2}
	threshold := voting.AbsolutePercentage{Percentage: voting.Majority{}}

	p := newSingle(threshold, 15, votes)
	require.True(t, p.IsPassed(beforeExpiration))
	require.True(t, p.IsPassed(atExpiration))

	// 14 of 15 non-abstaining is not a majority
	p = newSingle(threshold, 17, votes)
	require.False(t, p.IsPassed(beforeExpiration))
	require.False(t, p.IsPassed(atExpiration))
}

func TestSingleThresholdQuorum(t *testing.T) {
	threshold := voting.ThresholdQuorum{
		Threshold: voting.MustPercent("0.5"),
		Quorum:    voting.MustPercent("0.8"),
	}

	p := newSingle(threshold, 15, voting.Votes{Yes: 9, No: 1})

	// 10 cast, 12 needed for the quorum
	status, err := CurrentStatus(p, beforeExpiration)
	require.NoError(t, err)
	require.Equal(t, Open{}, status)

	require.NoError(t, p.Votes.Add(voting.No, 3))
	status, err = CurrentStatus(p, beforeExpiration)
	require.NoError(t, err)
	require.Equal(t, Passed{}, status)
}

func TestSingleThresholdQuorumAtExpiration(t *testing.T) {
	threshold := voting.ThresholdQuorum{
		Threshold: voting.Majority{},
		Quorum:    voting.MustPercent("0.2"),
	}

	p := newSingle(threshold, 100, voting.Votes{Yes: 15, No: 10})

	// uncast votes are counted as possible no votes until expiration
	require.False(t, p.IsPassed(beforeExpiration))
	require.False(t, p.IsRejected(beforeExpiration))

	// then only the cast votes count
	require.True(t, p.IsPassed(atExpiration))
	require.False(t, p.IsRejected(atExpiration))

	// quorum not met at expiration
	p = newSingle(threshold, 100, voting.Votes{Yes: 15})
	require.False(t, p.IsPassed(atExpiration))
	require.True(t, p.IsRejected(atExpiration))
}

func TestSingleAbsoluteCount(t *testing.T) {
	threshold := voting.AbsoluteCount{Threshold: 10}

	p := newSingle(threshold, 100, voting.Votes{Yes: 10})
	p.AllowRevoting = true

	require.False(t, p.IsPassed(beforeExpiration))
	require.True(t, p.IsPassed(atExpiration))

	// 5 outstanding can not bring yes to 10
	p = newSingle(threshold, 20, voting.Votes{No: 15})
	require.False(t, p.IsPassed(beforeExpiration))
	require.True(t, p.IsRejected(beforeExpiration))

	p = newSingle(threshold, 20, voting.Votes{No: 10})
	require.False(t, p.IsRejected(beforeExpiration))
}

func TestSingleHundredPercent(t *testing.T) {
	threshold := voting.AbsolutePercentage{Percentage: voting.MustPercent("1")}

	p := newSingle(threshold, 10, voting.Votes{Yes: 9})
	require.False(t, p.IsPassed(beforeExpiration))
	require.False(t, p.IsRejected(beforeExpiration))

	require.NoError(t, p.Votes.Add(voting.Yes, 1))
	require.True(t, p.IsPassed(beforeExpiration))

	p = newSingle(threshold, 10, voting.Votes{Yes: 9, No: 1})
	require.True(t, p.IsRejected(beforeExpiration))

	// abstaining does not block a unanimous decision
	p = newSingle(threshold, 10, voting.Votes{Yes: 8, Abstain: 2})
	require.True(t, p.IsPassed(beforeExpiration))
}

func TestSingleRevotingDelaysRejection(t *testing.T) {
	p := newSingle(voting.AbsolutePercentage{Percentage: voting.Majority{}}, 10, voting.Votes{No: 10})
	p.AllowRevoting = true

	require.False(t, p.IsRejected(beforeExpiration))
	require.True(t, p.IsRejected(atExpiration))
}

func TestSingleMinVotingPeriod(t *testing.T) {
	minVotingPeriod := common.ExpiresAtHeight(50)

	p := newSingle(voting.AbsoluteCount{Threshold: 10}, 100, voting.Votes{Yes: 10})
	p.MinVotingPeriod = &minVotingPeriod

	require.False(t, p.IsPassed(beforeExpiration))
	require.True(t, p.IsPassed(common.BlockInfo{Height: 50}))

	// rejection is not held back
	p = newSingle(voting.AbsoluteCount{Threshold: 10}, 100, voting.Votes{No: 100})
	p.MinVotingPeriod = &minVotingPeriod
	require.True(t, p.IsRejected(beforeExpiration))
}

func TestSinglePassedRejectedExclusive(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	thresholdOf := func(kind int, threshold, quorum uint64, count common.Power) voting.Threshold {
		percentage := voting.Percent{Value: common.NewDecimalFromAtomics(threshold)}
		switch kind {
		case 0:
			return voting.AbsoluteCount{Threshold: count + 1}
		case 1:
			return voting.AbsolutePercentage{Percentage: percentage}
		case 2:
			return voting.AbsolutePercentage{Percentage: voting.Majority{}}
		default:
			return voting.ThresholdQuorum{
				Threshold: percentage,
				Quorum:    voting.Percent{Value: common.NewDecimalFromAtomics(quorum)},
			}
		}
	}

	properties.Property("a proposal is never both passed and rejected", prop.ForAll(
		func(yes, no, abstain, outstanding uint64, kind int, threshold, quorum uint64, expired bool) bool {
			total := common.Power(yes + no + abstain + outstanding)
			votes := voting.Votes{Yes: common.Power(yes), No: common.Power(no), Abstain: common.Power(abstain)}
			p := newSingle(thresholdOf(kind, threshold, quorum, common.Power(outstanding)), total, votes)

			block := beforeExpiration
			if expired {
				block = atExpiration
			}

			return !(p.IsPassed(block) && p.IsRejected(block))
		},
		gen.UInt64Range(0, 1000),
		gen.UInt64Range(0, 1000),
		gen.UInt64Range(0, 1000),
		gen.UInt64Range(0, 1000),
		gen.IntRange(0, 3),
		gen.UInt64Range(1, common.DecimalFractional),
		gen.UInt64Range(1, common.DecimalFractional),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

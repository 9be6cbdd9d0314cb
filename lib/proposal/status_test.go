package proposal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/voting"
)

func TestStatusTransitions(t *testing.T) {
	timelock := VetoTimelock{Expiration: common.ExpiresAtHeight(10)}

	require.True(t, Open{}.CanTransitTo(Passed{}))
	require.True(t, Open{}.CanTransitTo(timelock))
	require.True(t, Open{}.CanTransitTo(Vetoed{}))
	require.False(t, Open{}.CanTransitTo(Executed{}))
	require.False(t, Open{}.CanTransitTo(Closed{}))

	require.True(t, timelock.CanTransitTo(Passed{}))
	require.True(t, timelock.CanTransitTo(Vetoed{}))
	require.True(t, timelock.CanTransitTo(Executed{}))

	require.True(t, Passed{}.CanTransitTo(Executed{}))
	require.True(t, Passed{}.CanTransitTo(ExecutionFailed{}))
	require.False(t, Passed{}.CanTransitTo(Rejected{}))

	require.True(t, Rejected{}.CanTransitTo(Closed{}))
	require.False(t, Rejected{}.CanTransitTo(Passed{}))

	for _, s := range []Status{Executed{}, ExecutionFailed{}, Closed{}, Vetoed{}} {
		require.True(t, s.IsTerminal())
		require.False(t, s.CanTransitTo(Open{}))
		require.False(t, s.CanTransitTo(Passed{}))
	}
}

func TestStatusJSON(t *testing.T) {
	statuses := []Status{
		Open{},
		Passed{},
		Rejected{},
		VetoTimelock{Expiration: common.ExpiresAtHeight(10)},
		Executed{},
		ExecutionFailed{},
		Closed{},
		Vetoed{},
	}

	for _, s := range statuses {
		b, err := MarshalStatus(s)
		require.NoError(t, err)

		decoded, err := UnmarshalStatus(b)
		require.NoError(t, err)
		require.Equal(t, s, decoded)
	}

	b, err := MarshalStatus(VetoTimelock{Expiration: common.ExpiresAtHeight(10)})
	require.NoError(t, err)
	require.JSONEq(t, `{"veto_timelock":{"expiration":{"at_height":10}}}`, string(b))

	_, err = UnmarshalStatus([]byte(`"unknown"`))
	require.True(t, errors.Is(err, errors.InvalidProposalStatus))

	_, err = UnmarshalStatus([]byte(`{}`))
	require.True(t, errors.Is(err, errors.InvalidProposalStatus))
}

func TestSetStatus(t *testing.T) {
	p := newSingle(voting.AbsoluteCount{Threshold: 1}, 10, voting.Votes{})

	err := SetStatus(p, Closed{})
	require.True(t, errors.Is(err, errors.InvalidProposalStatus))
	require.Equal(t, Open{}, p.Status)

	require.NoError(t, SetStatus(p, Rejected{}))
	require.NoError(t, SetStatus(p, Rejected{}))
	require.NoError(t, SetStatus(p, Closed{}))
}

func TestProposalJSON(t *testing.T) {
	msg, err := NewMessage("text", map[string]string{"body": "findme"})
	require.NoError(t, err)

	minVotingPeriod := common.ExpiresAtHeight(5)
	p := newSingle(
		voting.ThresholdQuorum{Threshold: voting.Majority{}, Quorum: voting.MustPercent("0.3")},
		100,
		voting.Votes{Yes: 1, No: 2, Abstain: 3},
	)
	p.Msgs = []Message{msg}
	p.MinVotingPeriod = &minVotingPeriod
	p.Veto = &VetoConfig{TimelockDuration: common.DurationOfHeight(3), Vetoer: "vetoer"}
	p.Status = VetoTimelock{Expiration: common.ExpiresAtHeight(103)}

	b, err := json.Marshal(p)
	require.NoError(t, err)

	record, err := Unmarshal(b)
	require.NoError(t, err)
	require.Equal(t, KindSingle, record.Kind())
	require.Equal(t, p, record)

	_, err = Unmarshal([]byte(`{"kind":"unknown"}`))
	require.Error(t, err)
}

func TestProposalHash(t *testing.T) {
	p := newSingle(voting.AbsoluteCount{Threshold: 1}, 10, voting.Votes{})
	p.Title = "findme"

	h0, err := p.ComputeHash()
	require.NoError(t, err)
	require.NotEmpty(t, h0)

	p.Title = "showme"
	h1, err := p.ComputeHash()
	require.NoError(t, err)
	require.NotEqual(t, h0, h1)

	// votes are not part of the content
	p.Votes.Yes = 5
	h2, err := p.ComputeHash()
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

package observer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvent(t *testing.T) {
	e := NewEvent(EventVoteCast, 3)

	require.Equal(t, "vote-cast-3", e.Filter())
	require.Equal(t, "vote-cast vote-cast-3", e.String())
}

func TestTrigger(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(2)

	var l sync.Mutex
	var received []string

	all := func(args ...interface{}) {
		l.Lock()
		defer l.Unlock()
		received = append(received, "all:"+args[0].(string))
		wg.Done()
	}
	one := func(args ...interface{}) {
		l.Lock()
		defer l.Unlock()
		received = append(received, "one:"+args[0].(string))
		wg.Done()
	}

	ProposalObserver.On(EventStatusChanged, all)
	defer ProposalObserver.Off(EventStatusChanged, all)
	ProposalObserver.On(NewEvent(EventStatusChanged, 7).Filter(), one)
	defer ProposalObserver.Off(NewEvent(EventStatusChanged, 7).Filter(), one)

	Trigger(NewEvent(EventStatusChanged, 7), "findme")
	wg.Wait()

	require.ElementsMatch(t, []string{"all:findme", "one:findme"}, received)
}

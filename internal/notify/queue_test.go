package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/maison-storefront/internal/notify"
	"github.com/jcmexdev/maison-storefront/internal/notify/notifytest"
)

func newQueue(t *testing.T) (*notify.Queue, *notifytest.ManualScheduler) {
	t.Helper()
	sched := &notifytest.ManualScheduler{}
	q := notify.NewQueue(notify.Options{Scheduler: sched})
	return q, sched
}

func texts(toasts []notify.Toast) []string {
	out := make([]string, 0, len(toasts))
	for _, t := range toasts {
		out = append(out, t.Text)
	}
	return out
}

func TestPush_EvictsOldestOverCapacity(t *testing.T) {
	q, _ := newQueue(t)

	first := q.Push("one", notify.SeverityInfo)
	q.Push("two", notify.SeverityInfo)
	q.Push("three", notify.SeverityInfo)
	fourth := q.Push("four", notify.SeveritySuccess)

	assert.Equal(t, []string{"two", "three", "four"}, texts(q.All()))
	assert.Greater(t, fourth, first)

	for i := 0; i < 10; i++ {
		q.Push("more", notify.SeverityInfo)
		assert.LessOrEqual(t, len(q.All()), notify.DefaultCapacity)
	}
}

func TestPush_IDsAreMonotonic(t *testing.T) {
	q, _ := newQueue(t)

	var last int64
	for i := 0; i < 5; i++ {
		id := q.Push("x", notify.SeverityInfo)
		assert.Greater(t, id, last)
		last = id
	}
}

func TestDismiss_TwoPhase(t *testing.T) {
	q, sched := newQueue(t)
	id := q.Push("saved", notify.SeveritySuccess)

	require.True(t, q.Dismiss(id))

	assert.Empty(t, q.Active(), "dismissed toast is no longer active")
	all := q.All()
	require.Len(t, all, 1)
	assert.True(t, all[0].Exiting)

	sched.Advance(notify.DefaultExitDelay)
	assert.Empty(t, q.All())
}

func TestDismiss_TwiceIsNoop(t *testing.T) {
	q, sched := newQueue(t)
	id := q.Push("x", notify.SeverityError)

	assert.True(t, q.Dismiss(id))
	assert.False(t, q.Dismiss(id))

	sched.Advance(notify.DefaultExitDelay)
	assert.False(t, q.Dismiss(id))
	assert.False(t, q.Dismiss(999))
}

func TestAutoDismiss(t *testing.T) {
	q, sched := newQueue(t)
	q.Push("first", notify.SeverityInfo)

	sched.Advance(time.Second)
	q.Push("second", notify.SeverityInfo)

	sched.Advance(notify.DefaultVisibleFor - time.Second)
	assert.Equal(t, []string{"second"}, texts(q.Active()))
	assert.Len(t, q.All(), 2)

	sched.Advance(notify.DefaultExitDelay)
	assert.Equal(t, []string{"second"}, texts(q.All()))

	sched.Advance(time.Second + notify.DefaultExitDelay)
	assert.Empty(t, q.All())
}

func TestManualDismissCancelsAutoDismiss(t *testing.T) {
	q, sched := newQueue(t)
	id := q.Push("x", notify.SeverityInfo)

	sched.Advance(time.Second)
	q.Dismiss(id)
	sched.Advance(notify.DefaultExitDelay)
	assert.Empty(t, q.All())

	// the original auto-dismiss deadline passing changes nothing
	sched.Advance(notify.DefaultVisibleFor)
	assert.Empty(t, q.All())
}

func TestClear(t *testing.T) {
	q, sched := newQueue(t)
	q.Push("a", notify.SeverityInfo)
	q.Push("b", notify.SeverityInfo)

	q.Clear()
	assert.Empty(t, q.All())

	sched.Advance(time.Minute)
	assert.Empty(t, q.All())
}

func TestRealSchedulerRemovesToast(t *testing.T) {
	q := notify.NewQueue(notify.Options{
		VisibleFor: 5 * time.Millisecond,
		ExitDelay:  5 * time.Millisecond,
	})
	q.Push("x", notify.SeverityInfo)

	assert.Eventually(t, func() bool { return len(q.All()) == 0 }, time.Second, 2*time.Millisecond)
}

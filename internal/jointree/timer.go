package jointree

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// defaultPlannerWait is the minimum wait applied when the CLI's
// plannerWait option is <= 0.
const defaultPlannerWait = 10 * time.Second

// Timer implements the planner-wait protocol with a monitor goroutine
// waiting on a deadline instead of a real-time SIGALRM handler — no
// signal-safety constraints, so it may allocate and log freely. Firing is
// one-shot: the monitor goroutine calls onDeadline at most once.
type Timer struct {
	mu       sync.Mutex
	armed    bool
	fired    bool
	haveTree bool
	killed   bool
	lastPID  int
	log      *logrus.Logger

	stop chan struct{}
	once sync.Once
}

// NewTimer arms a deadline of waitSeconds (or defaultPlannerWait if <= 0).
func NewTimer(waitSeconds float64, log *logrus.Logger) *Timer {
	d := defaultPlannerWait
	if waitSeconds > 0 {
		d = time.Duration(waitSeconds * float64(time.Second))
	}
	t := &Timer{armed: true, log: log, stop: make(chan struct{})}
	go t.monitor(d)
	return t
}

func (t *Timer) monitor(d time.Duration) {
	select {
	case <-time.After(d):
		t.onDeadline()
	case <-t.stop:
	}
}

// onDeadline runs when the deadline elapses: if a complete tree has
// already arrived, kill the planner now; otherwise defer the kill until
// OnTreeComplete observes the first complete tree.
func (t *Timer) onDeadline() {
	t.mu.Lock()
	t.fired = true
	haveTree := t.haveTree
	t.mu.Unlock()

	if haveTree {
		t.killNow()
	} else if t.log != nil {
		t.log.Debug("planner-wait deadline elapsed with no complete tree yet; deferring kill")
	}
}

// OnTreeComplete is called by the ingestion loop whenever a tree commits.
// If the deadline has already fired, this is where the deferred kill
// happens.
func (t *Timer) OnTreeComplete(plannerPID int) {
	t.mu.Lock()
	t.haveTree = true
	t.lastPID = plannerPID
	fired := t.fired
	t.mu.Unlock()

	if fired {
		t.killNow()
	}
}

func (t *Timer) killNow() {
	t.mu.Lock()
	if t.killed {
		t.mu.Unlock()
		return
	}
	t.killed = true
	pid := t.lastPID
	t.mu.Unlock()
	killPlanner(pid, t.log)
}

// OnEOF disarms the timer; a no-op if already disarmed.
func (t *Timer) OnEOF() {
	t.Disarm()
}

// Disarm stops the monitor goroutine if it hasn't already fired.
func (t *Timer) Disarm() {
	t.once.Do(func() {
		close(t.stop)
	})
}

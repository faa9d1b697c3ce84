package arbiter

import "sync"

// Arbiter grants exclusive ownership of the buzzer and acknowledgment
// indicator to at most one holder at a time. "Is an alarm active" is
// answered by the presence of an outstanding token, not by a flag toggled
// from multiple goroutines.
type Arbiter struct {
	// mu protects owner.
	mu sync.Mutex
	// owner names the current holder, empty when free.
	owner string
}

// Token represents live ownership. Release returns it; releasing twice is
// harmless.
type Token struct {
	// a is the issuing arbiter.
	a *Arbiter
	// once guards against double release.
	once sync.Once
}

// New returns an arbiter with no owner.
func New() *Arbiter {
	return new(Arbiter)
}

// Acquire claims the shared actuators for the named holder. It fails
// without blocking when another holder has them: the threshold monitor
// must degrade to indicator-only alerts, never queue behind a session.
func (a *Arbiter) Acquire(owner string) (*Token, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.owner != "" {
		return nil, false
	}

	a.owner = owner

	return &Token{a: a}, true
}

// Release returns ownership.
func (t *Token) Release() {
	if t == nil {
		return
	}

	t.once.Do(func() {
		t.a.mu.Lock()
		defer t.a.mu.Unlock()

		t.a.owner = ""
	})
}

// Active reports whether any holder currently owns the actuators.
func (a *Arbiter) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.owner != ""
}

// Owner returns the current holder's name, empty when free.
func (a *Arbiter) Owner() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.owner
}

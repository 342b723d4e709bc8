package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Action is a class of submission. Two submissions of the same class may
// not be in flight together; different classes do not block each other.
type Action string

const (
	ActionSignup    Action = "signup"
	ActionLogin     Action = "login"
	ActionInterview Action = "interview"
	ActionResume    Action = "resume"
	ActionVerify    Action = "verify"
	ActionExport    Action = "export"
)

// ErrInFlight is returned by Begin while a submission of the same class is
// outstanding.
var ErrInFlight = errors.New("a request of this kind is already in progress")

// Guard hands out one Ticket per action class at a time.
type Guard struct {
	mu      sync.Mutex
	pending map[Action]string
}

// NewGuard returns an empty Guard.
func NewGuard() *Guard {
	return &Guard{pending: make(map[Action]string)}
}

// Ticket marks an outstanding submission. ID is a sequencing token unique
// to this submission.
type Ticket struct {
	Action Action
	ID     string
	guard  *Guard
	once   sync.Once
}

// Begin claims the action class or fails with ErrInFlight.
func (g *Guard) Begin(action Action) (*Ticket, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id, busy := g.pending[action]; busy {
		return nil, fmt.Errorf("%s %s: %w", action, id, ErrInFlight)
	}
	t := &Ticket{Action: action, ID: uuid.NewString(), guard: g}
	g.pending[action] = t.ID
	return t, nil
}

// Busy reports whether the action class has an outstanding ticket.
func (g *Guard) Busy(action Action) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.pending[action]
	return busy
}

// Done releases the ticket. Calling it more than once is a no-op.
func (t *Ticket) Done() {
	t.once.Do(func() {
		g := t.guard
		g.mu.Lock()
		if g.pending[t.Action] == t.ID {
			delete(g.pending, t.Action)
		}
		g.mu.Unlock()
	})
}

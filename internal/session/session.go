// Package session runs one game outside Bubble Tea. A Session owns its
// game.State on a single goroutine: ticks from its ticker and actions from
// Dispatch are applied through game.Reduce in the order they arrive, and
// every resulting state is published as a Snapshot.
package session

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/riannelimje/git-streak/internal/core"
	"github.com/riannelimje/git-streak/internal/game"
)

// ID identifies a session.
type ID string

// NewID returns a random session id.
func NewID() ID {
	return ID(uuid.NewString())
}

// Snapshot is the state a driver renders after each transition.
type Snapshot struct {
	Session ID             `json:"session"`
	Seq     uint64         `json:"seq"`
	State   game.StateType `json:"state"`
	Paused  bool           `json:"paused"`
	Game    game.State     `json:"game"`
	Stats   game.Stats     `json:"stats"`
}

type event struct {
	action *game.Action
	pause  *bool
}

// Session is a single-player game loop.
type Session struct {
	id       ID
	interval time.Duration
	logger   *log.Logger

	state  game.State
	paused bool
	seq    uint64

	events   chan event
	updates  chan Snapshot
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a session starting from initial. It does nothing until Run.
func New(initial game.State, interval time.Duration, logger *log.Logger) *Session {
	if interval <= 0 {
		interval = core.DefaultTickInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	id := NewID()
	return &Session{
		id:       id,
		interval: interval,
		logger:   logger.With("session", string(id)),
		state:    initial,
		events:   make(chan event, 64),
		updates:  make(chan Snapshot, 1),
		done:     make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() ID {
	return s.id
}

// Dispatch queues an action. It returns false once the session has stopped
// or when the queue is full.
func (s *Session) Dispatch(a game.Action) bool {
	return s.send(event{action: &a})
}

// SetPaused stops or resumes ticking. Actions are still applied while paused.
func (s *Session) SetPaused(paused bool) bool {
	return s.send(event{pause: &paused})
}

func (s *Session) send(ev event) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.events <- ev:
		return true
	default:
		// Queue full, drop the event (rare under normal conditions)
		return false
	}
}

// Updates delivers snapshots. Only the most recent undelivered snapshot is
// kept; a slow reader skips intermediate states but never sees them out of
// order.
func (s *Session) Updates() <-chan Snapshot {
	return s.updates
}

// Done closes when the session stops.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Run is the authoritative loop. It returns when Stop is called.
func (s *Session) Run() {
	defer s.Stop()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug("Session started", "interval", s.interval)
	s.publish()

	for {
		select {
		case <-ticker.C:
			// Terminal and paused games do not move; skip the publish too.
			if s.paused || s.state.IsGameOver {
				continue
			}
			s.apply(game.TickAction())

		case ev := <-s.events:
			switch {
			case ev.action != nil:
				s.apply(*ev.action)
			case ev.pause != nil:
				if s.paused != *ev.pause {
					s.paused = *ev.pause
					s.publish()
				}
			}

		case <-s.done:
			s.logger.Debug("Session stopped", "score", s.state.Score, "state", s.state.Type())
			return
		}
	}
}

func (s *Session) apply(a game.Action) {
	before := s.state.Type()
	s.state = game.Reduce(s.state, a)
	if after := s.state.Type(); after != before {
		s.logger.Info("Game state changed", "from", before, "to", after, "score", s.state.Score)
	}
	s.publish()
}

// publish replaces any unread snapshot with the current one.
func (s *Session) publish() {
	s.seq++
	snap := Snapshot{
		Session: s.id,
		Seq:     s.seq,
		State:   s.state.Type(),
		Paused:  s.paused,
		Game:    s.state,
		Stats:   game.GetStats(s.state),
	}

	select {
	case s.updates <- snap:
	default:
		select {
		case <-s.updates:
		default:
		}
		select {
		case s.updates <- snap:
		default:
		}
	}
}

// Stop ends the loop. Safe to call multiple times.
func (s *Session) Stop() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

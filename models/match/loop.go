package match

import (
	"context"
	"log"

	"github.com/saeidalz13/ocean-storm/models/connection"
)

const eventBufferSize = 32

// Action is a local UI request run against the session.
type Action func(s *Session) bool

type event struct {
	run  func()
	done chan struct{}
}

// Loop owns a session and runs everything that touches it, inbound
// messages, transport failures and local actions, on one goroutine
// in arrival order.
type Loop struct {
	session *Session
	events  chan event
	stopped chan struct{}
}

func NewLoop(session *Session) *Loop {
	return &Loop{
		session: session,
		events:  make(chan event, eventBufferSize),
		stopped: make(chan struct{}),
	}
}

// Run subscribes to the session's transport, opens it and processes
// events until ctx is done. The transport is closed on the way out.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	transport := l.session.transport
	transport.OnMessage(func(msg connection.Message) {
		l.enqueue(func() { l.session.HandleMessage(msg) })
	})
	transport.OnClose(func(err error) {
		l.enqueue(func() { l.session.HandleTransportFailure(err) })
	})

	if err := transport.Open(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			if err := transport.Close(); err != nil {
				log.Println("closing transport:", err)
			}
			return nil

		case ev := <-l.events:
			ev.run()
			if ev.done != nil {
				close(ev.done)
			}
		}
	}
}

// Submit runs action on the loop and waits for its result. It
// returns false without running the action once the loop stopped.
// Must not be called from inside another action.
func (l *Loop) Submit(action Action) bool {
	var ok bool
	ev := event{
		run:  func() { ok = action(l.session) },
		done: make(chan struct{}),
	}

	select {
	case l.events <- ev:
	case <-l.stopped:
		return false
	}

	select {
	case <-ev.done:
		return ok
	case <-l.stopped:
		return false
	}
}

func (l *Loop) enqueue(run func()) {
	select {
	case l.events <- event{run: run}:
	case <-l.stopped:
	}
}

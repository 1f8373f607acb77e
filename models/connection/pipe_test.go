package connection

import (
	"context"
	"errors"
	"testing"
	"time"

	cerr "github.com/saeidalz13/ocean-storm/internal/error"
)

const pipeTestTimeout = time.Second * 2

func collect(t *PipeTransport) chan Message {
	received := make(chan Message, pipeBufferSize)
	t.OnMessage(func(msg Message) {
		received <- msg
	})
	return received
}

func expectMessage(t *testing.T, received chan Message, expected Message) {
	t.Helper()

	select {
	case msg := <-received:
		if msg != expected {
			t.Fatalf("expected: %#v\tgot: %#v", expected, msg)
		}
	case <-time.After(pipeTestTimeout):
		t.Fatalf("timed out waiting for %s", expected.Type())
	}
}

func TestPipeAnnouncesConnectedOnceBothOpen(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, b := NewPipe(NewJSONCodec())
	fromA, fromB := collect(a), collect(b)

	if err := a.Open(ctx); err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-fromA:
		t.Fatalf("nothing expected before the other end opens, got: %#v", msg)
	case <-time.After(time.Millisecond * 50):
	}

	if err := b.Open(ctx); err != nil {
		t.Fatal(err)
	}
	expectMessage(t, fromA, Connected{})
	expectMessage(t, fromB, Connected{})
}

func TestPipeKeepsSendOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, b := NewPipe(NewMsgpackCodec())
	_ = collect(a)
	fromB := collect(b)

	if err := a.Open(ctx); err != nil {
		t.Fatal(err)
	}
	if err := b.Open(ctx); err != nil {
		t.Fatal(err)
	}
	expectMessage(t, fromB, Connected{})

	sent := []Message{Ready{}, RequestHit{X: 1, Y: 2}, Miss{X: 1, Y: 2}, EndGameManually{}}
	for _, msg := range sent {
		if err := a.Send(msg); err != nil {
			t.Fatal(err)
		}
	}
	for _, msg := range sent {
		expectMessage(t, fromB, msg)
	}
}

func TestPipeCloseNotifiesOnlyThePeer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, b := NewPipe(NewJSONCodec())
	aClosed := make(chan error, 1)
	bClosed := make(chan error, 1)
	a.OnClose(func(err error) { aClosed <- err })
	b.OnClose(func(err error) { bClosed <- err })

	_ = a.Open(ctx)
	_ = b.Open(ctx)

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-bClosed:
		if !errors.Is(err, cerr.ErrTransportClosed) {
			t.Fatalf("expected err: %v\tgot: %v", cerr.ErrTransportClosed, err)
		}
	case <-time.After(pipeTestTimeout):
		t.Fatal("peer was not told about the close")
	}

	select {
	case err := <-aClosed:
		t.Fatalf("local close must not fire own handler, got: %v", err)
	case <-time.After(time.Millisecond * 50):
	}

	if err := a.Send(Ready{}); !errors.Is(err, cerr.ErrTransportClosed) {
		t.Fatalf("expected err: %v\tgot: %v", cerr.ErrTransportClosed, err)
	}
	if err := b.Send(Ready{}); !errors.Is(err, cerr.ErrTransportClosed) {
		t.Fatalf("expected err: %v\tgot: %v", cerr.ErrTransportClosed, err)
	}

	// second close is a no-op
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
}

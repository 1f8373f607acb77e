package connection

import (
	"context"
	"log"
	"sync"

	cerr "github.com/saeidalz13/ocean-storm/internal/error"
)

const pipeBufferSize = 64

// PipeTransport is one end of an in-process link. Every message
// still goes through the codec so both ends behave like they
// would over the relay, including the Connected announcement
// once both ends are open.
type PipeTransport struct {
	codec Codec
	link  *pipeLink
	peer  *PipeTransport
	inbox chan []byte
	done  chan struct{}

	mu        sync.Mutex
	opened    bool
	closed    bool
	onMessage func(Message)
	onClose   func(error)
}

type pipeLink struct {
	mu     sync.Mutex
	opened int
}

var _ Transport = (*PipeTransport)(nil)

func NewPipe(codec Codec) (*PipeTransport, *PipeTransport) {
	link := &pipeLink{}
	a := newPipeEnd(codec, link)
	b := newPipeEnd(codec, link)
	a.peer, b.peer = b, a
	return a, b
}

func newPipeEnd(codec Codec, link *pipeLink) *PipeTransport {
	return &PipeTransport{
		codec: codec,
		link:  link,
		inbox: make(chan []byte, pipeBufferSize),
		done:  make(chan struct{}),
	}
}

func (p *PipeTransport) Open(ctx context.Context) error {
	p.mu.Lock()
	if p.opened || p.closed {
		p.mu.Unlock()
		return nil
	}
	p.opened = true
	p.mu.Unlock()

	go p.deliverLoop(ctx)

	p.link.mu.Lock()
	p.link.opened++
	bothOpen := p.link.opened == 2
	p.link.mu.Unlock()

	if bothOpen {
		if err := p.announce(Connected{}); err != nil {
			return err
		}
		return p.peer.announce(Connected{})
	}
	return nil
}

func (p *PipeTransport) OnMessage(handler func(Message)) {
	p.mu.Lock()
	p.onMessage = handler
	p.mu.Unlock()
}

func (p *PipeTransport) OnClose(handler func(error)) {
	p.mu.Lock()
	p.onClose = handler
	p.mu.Unlock()
}

func (p *PipeTransport) Send(msg Message) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return cerr.ErrTransportClosed
	}
	return p.peer.announce(msg)
}

// Close ends this side at once. The other side first receives
// whatever was already sent, then sees its OnClose handler fire as
// if the remote peer disconnected.
func (p *PipeTransport) Close() error {
	if !p.shutdown() {
		return nil
	}
	p.peer.enqueue(nil)
	return nil
}

func (p *PipeTransport) shutdown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.closed = true
	close(p.done)
	return true
}

// Queues msg for this end's handler
func (p *PipeTransport) announce(msg Message) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return cerr.ErrTransportClosed
	}

	data, err := p.codec.Encode(msg)
	if err != nil {
		return err
	}
	if !p.enqueue(data) {
		return cerr.ErrTransportClosed
	}
	return nil
}

// nil data marks the remote close
func (p *PipeTransport) enqueue(data []byte) bool {
	select {
	case p.inbox <- data:
		return true
	case <-p.done:
		return false
	}
}

func (p *PipeTransport) deliverLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case data := <-p.inbox:
			if data == nil {
				p.remoteClosed()
				return
			}

			msg, err := p.codec.Decode(data)
			if err != nil {
				log.Println("dropping inbound frame:", err)
				continue
			}

			p.mu.Lock()
			handler := p.onMessage
			p.mu.Unlock()
			if handler != nil {
				handler(msg)
			}
		}
	}
}

func (p *PipeTransport) remoteClosed() {
	if !p.shutdown() {
		return
	}

	p.mu.Lock()
	handler := p.onClose
	p.mu.Unlock()
	if handler != nil {
		handler(cerr.ErrTransportClosed)
	}
}

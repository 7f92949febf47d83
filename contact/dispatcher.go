package contact

import (
	"context"
	"log"
	"sync"
)

// Archiver persists submissions so a relay outage never loses a message.
type Archiver interface {
	SaveMessage(ctx context.Context, m Message) error
	MarkMessageSent(ctx context.Context, id string) error
}

// Dispatcher accepts validated submissions, archives each one, and
// delivers it through the mailer on a single background worker. Ordering
// follows submission order.
type Dispatcher struct {
	mailer   Mailer
	archiver Archiver

	queue  chan Message
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher starts the worker. archiver may be nil when no database
// is attached (tests, dry runs).
func NewDispatcher(mailer Mailer, archiver Archiver, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		mailer:   mailer,
		archiver: archiver,
		queue:    make(chan Message, buffer),
		ctx:      ctx,
		cancel:   cancel,
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-d.ctx.Done():
				d.drain()
				return
			case m := <-d.queue:
				d.process(d.ctx, m)
			}
		}
	}()

	return d
}

// Enqueue hands a submission to the worker. It reports false when the
// queue is full or the dispatcher has shut down; the caller then surfaces
// a relay failure to the form.
func (d *Dispatcher) Enqueue(m Message) bool {
	select {
	case <-d.ctx.Done():
		return false
	case d.queue <- m:
		return true
	default:
		return false
	}
}

// Shutdown stops accepting submissions, processes everything still
// queued, and waits for the worker to exit.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	d.wg.Wait()
}

// drain empties the queue after cancellation. Enqueue rejects once the
// context is done, so the queue only shrinks here. The worker's own
// context is already canceled, so draining runs on a fresh one.
func (d *Dispatcher) drain() {
	for {
		select {
		case m := <-d.queue:
			d.process(context.Background(), m)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, m Message) {
	if d.archiver != nil {
		if err := d.archiver.SaveMessage(ctx, m); err != nil {
			log.Printf("Failed to archive contact message %s: %v", m.ID, err)
		}
	}

	if err := d.mailer.Send(ctx, m); err != nil {
		log.Printf("Failed to send contact message %s: %v", m.ID, err)
		return
	}

	if d.archiver != nil {
		if err := d.archiver.MarkMessageSent(ctx, m.ID); err != nil {
			log.Printf("Failed to mark contact message %s sent: %v", m.ID, err)
		}
	}
	log.Printf("Contact message %s delivered", m.ID)
}

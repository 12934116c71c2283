package shell

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/hoshinonyaruko/snake-retro/render"
	"github.com/hoshinonyaruko/snake-retro/structs"
)

// ErrStopped is returned to callers once the loop has exited.
var ErrStopped = errors.New("game loop stopped")

type request struct {
	fn      func(*Session)
	publish bool
	done    chan struct{}
}

// Loop owns a Session and drives it from a single goroutine: the tick timer,
// the blink ticker and requests from other goroutines are all served by one
// select, so the session never needs a lock.
type Loop struct {
	session    *Session
	blinkEvery time.Duration

	requests chan request
	stopped  chan struct{}

	mu          sync.Mutex
	subscribers map[chan structs.Snapshot]struct{}
}

func NewLoop(session *Session, blinkEvery time.Duration) *Loop {
	if blinkEvery <= 0 {
		blinkEvery = 300 * time.Millisecond
	}
	return &Loop{
		session:     session,
		blinkEvery:  blinkEvery,
		requests:    make(chan request),
		stopped:     make(chan struct{}),
		subscribers: make(map[chan structs.Snapshot]struct{}),
	}
}

// Run serves the session until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	game := l.session.Game()
	timer := time.NewTimer(game.Interval())
	defer timer.Stop()
	blink := time.NewTicker(l.blinkEvery)
	defer blink.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			l.session.Tick()
			// 吃到苹果后间隔会变
			timer.Reset(game.Interval())
			l.publish()
		case <-blink.C:
			l.session.ToggleBlink()
			l.publish()
		case req := <-l.requests:
			interval, id := game.Interval(), l.session.ID()
			req.fn(l.session)
			// 重置或变速后，按新间隔重新计时
			if game.Interval() != interval || l.session.ID() != id {
				timer.Reset(game.Interval())
			}
			close(req.done)
			if req.publish {
				l.publish()
			}
		}
	}
}

func (l *Loop) submit(ctx context.Context, fn func(*Session), publish bool) error {
	req := request{fn: fn, publish: publish, done: make(chan struct{})}
	select {
	case l.requests <- req:
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-req.done
	return nil
}

// Do runs fn on the loop goroutine and waits for it. Subscribers get a
// snapshot afterwards.
func (l *Loop) Do(ctx context.Context, fn func(*Session)) error {
	return l.submit(ctx, fn, true)
}

// View runs fn on the loop goroutine without notifying subscribers. fn must
// not change the session.
func (l *Loop) View(ctx context.Context, fn func(*Session)) error {
	return l.submit(ctx, fn, false)
}

// Send applies a command.
func (l *Loop) Send(ctx context.Context, cmd structs.Command) error {
	return l.Do(ctx, func(s *Session) { s.Apply(cmd) })
}

// Snapshot reads the current state.
func (l *Loop) Snapshot(ctx context.Context) (structs.Snapshot, error) {
	var snap structs.Snapshot
	err := l.View(ctx, func(s *Session) { snap = s.Snapshot() })
	return snap, err
}

// Frame renders the current state at logical resolution.
func (l *Loop) Frame(ctx context.Context, r *render.Renderer) (*image.RGBA, error) {
	var (
		img       *image.RGBA
		renderErr error
	)
	err := l.View(ctx, func(s *Session) {
		img, renderErr = r.Frame(s.Game(), s.Blink())
	})
	if err != nil {
		return nil, err
	}
	return img, renderErr
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. Slow readers only see the most recent one. Call cancel when done.
func (l *Loop) Subscribe() (<-chan structs.Snapshot, func()) {
	ch := make(chan structs.Snapshot, 1)
	l.mu.Lock()
	l.subscribers[ch] = struct{}{}
	l.mu.Unlock()

	cancel := func() {
		l.mu.Lock()
		delete(l.subscribers, ch)
		l.mu.Unlock()
	}
	return ch, cancel
}

func (l *Loop) publish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.subscribers) == 0 {
		return
	}
	snap := l.session.Snapshot()
	for ch := range l.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

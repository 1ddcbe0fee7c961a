package engine

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/ayusman/handgrain/internal/control"
	"github.com/ayusman/handgrain/internal/detector"
)

// DefaultEventBuffer is the number of control events that may wait for the frame loop.
const DefaultEventBuffer = 64

// Session couples a Processor with the queue of control events posted by
// listeners. Run is the only consumer: events are applied between frames on
// the frame goroutine, so a frame never observes a half-applied update.
type Session struct {
	proc   *Processor
	events chan control.Event
	log    *zap.Logger
}

// NewSession wraps proc. A non-positive buffer uses DefaultEventBuffer.
func NewSession(proc *Processor, buffer int, log *zap.Logger) *Session {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		proc:   proc,
		events: make(chan control.Event, buffer),
		log:    log.Named("session"),
	}
}

// Post queues ev for the frame loop. It blocks while the queue is full.
func (s *Session) Post(ctx context.Context, ev control.Event) error {
	select {
	case s.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the most recently published control state.
func (s *Session) Snapshot() control.Snapshot {
	return s.proc.Snapshot()
}

// Processor returns the wrapped processor.
func (s *Session) Processor() *Processor {
	return s.proc
}

// Drain applies every queued event without waiting for more.
func (s *Session) Drain() int {
	n := 0
	for {
		select {
		case ev := <-s.events:
			s.proc.Apply(ev)
			n++
		default:
			return n
		}
	}
}

type sourceResult struct {
	hands []detector.HandLandmarks
	err   error
}

// Run processes frames from src until the source ends, fails, or ctx is
// cancelled. Control events are applied as they arrive and before each frame.
// End of stream and cancellation return nil.
func (s *Session) Run(ctx context.Context, src detector.Source) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan sourceResult)
	go func() {
		defer close(frames)
		for {
			hands, err := src.Next(ctx)
			select {
			case frames <- sourceResult{hands: hands, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-s.events:
			s.proc.Apply(ev)

		case res, ok := <-frames:
			if !ok {
				return nil
			}
			if res.err != nil {
				if errors.Is(res.err, io.EOF) || errors.Is(res.err, context.Canceled) {
					s.log.Info("frame source ended")
					return nil
				}
				return res.err
			}
			s.Drain()
			s.proc.ProcessFrame(res.hands)
		}
	}
}

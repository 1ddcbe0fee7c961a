package osc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"

	gosc "github.com/hypebeast/go-osc/osc"
	"go.uber.org/zap"

	"github.com/ayusman/handgrain/internal/control"
)

// Inbound addresses.
const (
	AddrFingerParameters = "/fingerParameters"
	AddrSampleDuration   = "/sampleDuration"
	AddrActivePage       = "/activePage"
	AddrFingerDrums      = "/fingerDrums"
	AddrResetParameters  = "/resetParameters"
)

// maxPacketSize bounds a single UDP datagram.
const maxPacketSize = 65507

// ErrUnknownAddress is returned by Decode for addresses the engine does not handle.
var ErrUnknownAddress = errors.New("unknown OSC address")

// Poster accepts decoded control events. engine.Session satisfies it.
type Poster interface {
	Post(ctx context.Context, ev control.Event) error
}

// Decode converts an inbound OSC message into a control event. Values are
// only checked for type here; range checks happen when the event is applied.
func Decode(msg *gosc.Message) (control.Event, error) {
	switch msg.Address {
	case AddrFingerParameters:
		names := make([]string, 0, len(msg.Arguments))
		for i, arg := range msg.Arguments {
			s, ok := arg.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s argument %d is %T, want string", control.ErrInvalidEvent, msg.Address, i, arg)
			}
			names = append(names, s)
		}
		return control.SetFingerParameters{Params: names}, nil

	case AddrSampleDuration:
		if len(msg.Arguments) != 1 {
			return nil, fmt.Errorf("%w: %s takes 1 argument, got %d", control.ErrInvalidEvent, msg.Address, len(msg.Arguments))
		}
		seconds, ok := toFloat(msg.Arguments[0])
		if !ok {
			return nil, fmt.Errorf("%w: %s argument is %T, want number", control.ErrInvalidEvent, msg.Address, msg.Arguments[0])
		}
		return control.SetSampleDuration{Seconds: seconds}, nil

	case AddrActivePage:
		if len(msg.Arguments) != 1 {
			return nil, fmt.Errorf("%w: %s takes 1 argument, got %d", control.ErrInvalidEvent, msg.Address, len(msg.Arguments))
		}
		page, ok := msg.Arguments[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s argument is %T, want string", control.ErrInvalidEvent, msg.Address, msg.Arguments[0])
		}
		return control.SetActivePage{Page: page}, nil

	case AddrFingerDrums:
		samples := make([]int, 0, len(msg.Arguments))
		for i, arg := range msg.Arguments {
			n, ok := toInt(arg)
			if !ok {
				return nil, fmt.Errorf("%w: %s argument %d is %T, want integer", control.ErrInvalidEvent, msg.Address, i, arg)
			}
			samples = append(samples, n)
		}
		return control.SetFingerDrums{Samples: samples}, nil

	case AddrResetParameters:
		return control.ResetParameters{}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownAddress, msg.Address)
}

func toFloat(arg interface{}) (float64, bool) {
	switch v := arg.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func toInt(arg interface{}) (int, bool) {
	switch v := arg.(type) {
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float32:
		return truncate(float64(v))
	case float64:
		return truncate(v)
	}
	return 0, false
}

func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// Listener receives configuration messages over UDP and posts the decoded
// events. Messages are handled in arrival order, including those inside bundles.
type Listener struct {
	addr   string
	poster Poster
	log    *zap.Logger

	mu   sync.Mutex
	conn net.PacketConn
}

// NewListener creates a listener for addr. Call Listen, then Serve.
func NewListener(addr string, poster Poster, log *zap.Logger) *Listener {
	if log == nil {
		log = zap.NewNop()
	}
	return &Listener{addr: addr, poster: poster, log: log.Named("osc")}
}

// Listen binds the UDP socket.
func (l *Listener) Listen() error {
	conn, err := net.ListenPacket("udp", l.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", l.addr, err)
	}
	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// Serve reads packets until ctx is cancelled. It binds the socket first if
// Listen was not called.
func (l *Listener) Serve(ctx context.Context) error {
	if l.Addr() == nil {
		if err := l.Listen(); err != nil {
			return err
		}
	}
	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()

	dispatcher, err := l.dispatcher(ctx)
	if err != nil {
		conn.Close()
		return err
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	l.log.Info("listening for control messages", zap.String("addr", conn.LocalAddr().String()))

	buf := make([]byte, maxPacketSize)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		packet, err := gosc.ParsePacket(string(buf[:n]))
		if err != nil {
			l.log.Warn("malformed OSC packet", zap.Stringer("from", from), zap.Error(err))
			continue
		}
		for _, msg := range messages(packet) {
			if !handled(msg.Address) {
				l.log.Debug("ignoring OSC message", zap.String("address", msg.Address))
				continue
			}
			dispatcher.Dispatch(msg)
		}
	}
}

// messages flattens a packet, listing a bundle's own messages before those
// of its nested bundles. Bundle timetags are ignored: the dispatcher would
// otherwise run each bundle on its own goroutine and reorder it against
// plain messages.
func messages(packet gosc.Packet) []*gosc.Message {
	switch p := packet.(type) {
	case *gosc.Message:
		return []*gosc.Message{p}
	case *gosc.Bundle:
		out := append([]*gosc.Message(nil), p.Messages...)
		for _, b := range p.Bundles {
			out = append(out, messages(b)...)
		}
		return out
	}
	return nil
}

func handled(addr string) bool {
	switch addr {
	case AddrFingerParameters, AddrSampleDuration, AddrActivePage, AddrFingerDrums, AddrResetParameters:
		return true
	}
	return false
}

func (l *Listener) dispatcher(ctx context.Context) (*gosc.StandardDispatcher, error) {
	d := gosc.NewStandardDispatcher()
	for _, addr := range []string{AddrFingerParameters, AddrSampleDuration, AddrActivePage, AddrFingerDrums, AddrResetParameters} {
		if err := d.AddMsgHandler(addr, func(msg *gosc.Message) { l.handle(ctx, msg) }); err != nil {
			return nil, fmt.Errorf("register %s: %w", addr, err)
		}
	}
	return d, nil
}

func (l *Listener) handle(ctx context.Context, msg *gosc.Message) {
	ev, err := Decode(msg)
	if err != nil {
		l.log.Warn("rejected OSC message", zap.String("address", msg.Address), zap.Error(err))
		return
	}
	if err := l.poster.Post(ctx, ev); err != nil && ctx.Err() == nil {
		l.log.Warn("dropped control event", zap.String("event", ev.Name()), zap.Error(err))
	}
}

// Package osc carries the control engine's traffic over Open Sound Control:
// parameter vectors, drum triggers and hand points out, configuration events in.
package osc

import (
	"fmt"
	"net"
	"sync"
	"time"

	gosc "github.com/hypebeast/go-osc/osc"

	"github.com/ayusman/handgrain/internal/control"
)

// Outbound addresses.
const (
	AddrHandGrain   = "/handGrain"
	AddrTriggerDrum = "/triggerDrum"
	handPointFormat = "/hand/%d/%d"
)

// Default endpoints of the synth, visualizer and listener.
const (
	DefaultSynthAddr  = "127.0.0.1:9001"
	DefaultListenAddr = "127.0.0.1:9002"
	DefaultVisualAddr = "127.0.0.1:9003"
)

const writeTimeout = 50 * time.Millisecond

// Sink sends OSC messages to one UDP endpoint. It implements both
// engine.SynthSink and engine.VisualSink.
type Sink struct {
	addr string

	mu   sync.Mutex
	conn net.Conn
}

// Dial opens a UDP sink to addr ("host:port").
func Dial(addr string) (*Sink, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Sink{addr: addr, conn: conn}, nil
}

// Addr returns the remote endpoint.
func (s *Sink) Addr() string {
	return s.addr
}

// ParametersMessage builds the /handGrain message for v.
func ParametersMessage(v control.ParameterVector) *gosc.Message {
	msg := gosc.NewMessage(AddrHandGrain)
	for _, x := range v {
		msg.Append(float32(x))
	}
	return msg
}

// TriggerMessage builds the /triggerDrum message for a sample index.
func TriggerMessage(sample int) *gosc.Message {
	return gosc.NewMessage(AddrTriggerDrum, int32(sample))
}

// HandPointMessage builds the /hand/{hand}/{index} message for one landmark.
func HandPointMessage(hand, index int, x, y float64) *gosc.Message {
	return gosc.NewMessage(fmt.Sprintf(handPointFormat, hand, index), float32(x), float32(y))
}

func (s *Sink) SendParameters(v control.ParameterVector) error {
	return s.send(ParametersMessage(v))
}

func (s *Sink) SendTrigger(sample int) error {
	return s.send(TriggerMessage(sample))
}

func (s *Sink) SendHandPoint(hand, index int, x, y float64) error {
	return s.send(HandPointMessage(hand, index, x, y))
}

func (s *Sink) send(msg *gosc.Message) error {
	data, err := msg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Address, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return net.ErrClosed
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("send %s to %s: %w", msg.Address, s.addr, err)
	}
	return nil
}

// Close releases the socket.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

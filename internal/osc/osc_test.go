package osc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	gosc "github.com/hypebeast/go-osc/osc"

	"github.com/ayusman/handgrain/internal/control"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		msg  *gosc.Message
		want control.Event
	}{
		{
			name: "finger parameters",
			msg:  gosc.NewMessage(AddrFingerParameters, "GrainPos", "", "lfoRate", "GrainPitch"),
			want: control.SetFingerParameters{Params: []string{"GrainPos", "", "lfoRate", "GrainPitch"}},
		},
		{
			name: "sample duration from float",
			msg:  gosc.NewMessage(AddrSampleDuration, float32(4.5)),
			want: control.SetSampleDuration{Seconds: 4.5},
		},
		{
			name: "sample duration from int",
			msg:  gosc.NewMessage(AddrSampleDuration, int32(3)),
			want: control.SetSampleDuration{Seconds: 3},
		},
		{
			name: "active page",
			msg:  gosc.NewMessage(AddrActivePage, "drum"),
			want: control.SetActivePage{Page: "drum"},
		},
		{
			name: "finger drums",
			msg:  gosc.NewMessage(AddrFingerDrums, int32(7), int32(-1), float32(2)),
			want: control.SetFingerDrums{Samples: []int{7, -1, 2}},
		},
		{
			name: "reset",
			msg:  gosc.NewMessage(AddrResetParameters),
			want: control.ResetParameters{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.msg)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got.Name() != tt.want.Name() {
				t.Fatalf("Decode() = %s, want %s", got.Name(), tt.want.Name())
			}
			switch want := tt.want.(type) {
			case control.SetFingerParameters:
				g := got.(control.SetFingerParameters)
				if len(g.Params) != len(want.Params) {
					t.Fatalf("params = %v, want %v", g.Params, want.Params)
				}
				for i := range want.Params {
					if g.Params[i] != want.Params[i] {
						t.Errorf("params[%d] = %q, want %q", i, g.Params[i], want.Params[i])
					}
				}
			case control.SetFingerDrums:
				g := got.(control.SetFingerDrums)
				if len(g.Samples) != len(want.Samples) {
					t.Fatalf("samples = %v, want %v", g.Samples, want.Samples)
				}
				for i := range want.Samples {
					if g.Samples[i] != want.Samples[i] {
						t.Errorf("samples[%d] = %d, want %d", i, g.Samples[i], want.Samples[i])
					}
				}
			case control.SetSampleDuration:
				if g := got.(control.SetSampleDuration); g.Seconds != want.Seconds {
					t.Errorf("seconds = %v, want %v", g.Seconds, want.Seconds)
				}
			case control.SetActivePage:
				if g := got.(control.SetActivePage); g.Page != want.Page {
					t.Errorf("page = %q, want %q", g.Page, want.Page)
				}
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		msg     *gosc.Message
		wantErr error
	}{
		{"unknown address", gosc.NewMessage("/volume", float32(1)), ErrUnknownAddress},
		{"non-string parameter", gosc.NewMessage(AddrFingerParameters, int32(1)), control.ErrInvalidEvent},
		{"missing duration", gosc.NewMessage(AddrSampleDuration), control.ErrInvalidEvent},
		{"string duration", gosc.NewMessage(AddrSampleDuration, "long"), control.ErrInvalidEvent},
		{"numeric page", gosc.NewMessage(AddrActivePage, int32(1)), control.ErrInvalidEvent},
		{"string drum", gosc.NewMessage(AddrFingerDrums, "kick"), control.ErrInvalidEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.msg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	v := control.Defaults()
	msg := ParametersMessage(v)
	if msg.Address != AddrHandGrain {
		t.Errorf("address = %s", msg.Address)
	}
	if len(msg.Arguments) != control.NumParameters {
		t.Fatalf("arguments = %d, want %d", len(msg.Arguments), control.NumParameters)
	}
	if got := msg.Arguments[2].(float32); got != 3000 {
		t.Errorf("cutoff argument = %v, want 3000", got)
	}

	trig := TriggerMessage(7)
	if trig.Address != AddrTriggerDrum || trig.Arguments[0].(int32) != 7 {
		t.Errorf("trigger = %s %v", trig.Address, trig.Arguments)
	}

	pt := HandPointMessage(1, 8, 0.25, 0.75)
	if pt.Address != "/hand/1/8" {
		t.Errorf("hand point address = %s", pt.Address)
	}
	if pt.Arguments[0].(float32) != 0.25 || pt.Arguments[1].(float32) != 0.75 {
		t.Errorf("hand point arguments = %v", pt.Arguments)
	}
}

func readPacket(t *testing.T, conn net.PacketConn) *gosc.Message {
	t.Helper()
	buf := make([]byte, maxPacketSize)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	packet, err := gosc.ParsePacket(string(buf[:n]))
	if err != nil {
		t.Fatalf("ParsePacket() error = %v", err)
	}
	msg, ok := packet.(*gosc.Message)
	if !ok {
		t.Fatalf("packet is %T, want message", packet)
	}
	return msg
}

func TestSink_SendsOverUDP(t *testing.T) {
	recv, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer recv.Close()

	sink, err := Dial(recv.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	if err := sink.SendParameters(control.Defaults()); err != nil {
		t.Fatalf("SendParameters() error = %v", err)
	}
	msg := readPacket(t, recv)
	if msg.Address != AddrHandGrain || len(msg.Arguments) != control.NumParameters {
		t.Errorf("received %s with %d arguments", msg.Address, len(msg.Arguments))
	}

	if err := sink.SendTrigger(3); err != nil {
		t.Fatalf("SendTrigger() error = %v", err)
	}
	msg = readPacket(t, recv)
	if msg.Address != AddrTriggerDrum || msg.Arguments[0].(int32) != 3 {
		t.Errorf("received %s %v", msg.Address, msg.Arguments)
	}

	sink.Close()
	if err := sink.SendTrigger(1); !errors.Is(err, net.ErrClosed) {
		t.Errorf("send after close error = %v, want net.ErrClosed", err)
	}
}

// chanPoster collects posted events.
type chanPoster chan control.Event

func (c chanPoster) Post(ctx context.Context, ev control.Event) error {
	select {
	case c <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestListener_PostsInOrder(t *testing.T) {
	events := make(chanPoster, 8)
	l := NewListener("127.0.0.1:0", events, nil)
	if err := l.Listen(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx) }()

	sink, err := Dial(l.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	send := func(msg *gosc.Message) {
		if err := sink.send(msg); err != nil {
			t.Fatal(err)
		}
	}
	send(gosc.NewMessage(AddrActivePage, "drum"))
	send(gosc.NewMessage("/unknown"))
	send(gosc.NewMessage(AddrSampleDuration, "bad"))
	send(gosc.NewMessage(AddrFingerDrums, int32(5)))
	send(gosc.NewMessage(AddrResetParameters))

	want := []string{"SetActivePage", "SetFingerDrums", "ResetParameters"}
	for i, name := range want {
		select {
		case ev := <-events:
			if ev.Name() != name {
				t.Errorf("event %d = %s, want %s", i, ev.Name(), name)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", name)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestMessages_FlattensBundles(t *testing.T) {
	inner := gosc.NewBundle(time.Now())
	inner.Append(gosc.NewMessage(AddrFingerDrums, int32(2)))

	outer := gosc.NewBundle(time.Now().Add(time.Hour))
	outer.Append(gosc.NewMessage(AddrActivePage, "drum"))
	outer.Append(inner)
	outer.Append(gosc.NewMessage(AddrResetParameters))

	var got []string
	for _, msg := range messages(outer) {
		got = append(got, msg.Address)
	}
	want := []string{AddrActivePage, AddrResetParameters, AddrFingerDrums}
	if len(got) != len(want) {
		t.Fatalf("messages() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %s, want %s", i, got[i], want[i])
		}
	}

	if msgs := messages(gosc.NewMessage(AddrResetParameters)); len(msgs) != 1 {
		t.Errorf("plain message flattened to %d messages, want 1", len(msgs))
	}
}

func TestListener_BundlesKeepOrder(t *testing.T) {
	events := make(chanPoster, 8)
	l := NewListener("127.0.0.1:0", events, nil)
	if err := l.Listen(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Serve(ctx)

	conn, err := net.Dial("udp", l.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	write := func(p gosc.Packet) {
		data, err := p.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := conn.Write(data); err != nil {
			t.Fatal(err)
		}
	}

	// A far-future timetag must not hold the bundle back behind later messages.
	bundle := gosc.NewBundle(time.Now().Add(time.Hour))
	bundle.Append(gosc.NewMessage(AddrActivePage, "drum"))
	bundle.Append(gosc.NewMessage(AddrSampleDuration, float32(2)))
	write(bundle)
	write(gosc.NewMessage(AddrResetParameters))

	want := []string{"SetActivePage", "SetSampleDuration", "ResetParameters"}
	for i, name := range want {
		select {
		case ev := <-events:
			if ev.Name() != name {
				t.Errorf("event %d = %s, want %s", i, ev.Name(), name)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", name)
		}
	}
}

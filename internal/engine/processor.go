// Package engine turns per-frame hand landmarks into synthesis parameters and
// drum triggers.
package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/handgrain/internal/control"
	"github.com/ayusman/handgrain/internal/detector"
	"github.com/ayusman/handgrain/internal/gesture"
	"github.com/ayusman/handgrain/internal/metrics"
)

// Config holds the tunable constants of the frame processor.
type Config struct {
	Curves         control.Curves
	Thresholds     gesture.Thresholds
	SampleDuration float64
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Curves:         control.DefaultCurves(),
		Thresholds:     gesture.DefaultThresholds(),
		SampleDuration: control.DefaultSampleDuration,
	}
}

// Validate rejects curve and threshold settings that could not be mapped from.
func (c Config) Validate() error {
	if err := c.Curves.Validate(); err != nil {
		return fmt.Errorf("curves: %w", err)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if !control.ValidSampleDuration(c.SampleDuration) {
		return fmt.Errorf("sample duration must be positive and finite, got %g", c.SampleDuration)
	}
	return nil
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

// WithMetrics records frame and event metrics on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

// WithEventHook calls fn after every successfully applied event.
// fn runs on the frame goroutine and must not block.
func WithEventHook(fn func(ev control.Event, snap control.Snapshot)) Option {
	return func(p *Processor) {
		p.onEvent = fn
	}
}

// FrameResult summarizes what one frame produced.
type FrameResult struct {
	Frozen   bool
	Emitted  bool
	Triggers []int
}

// Processor is the frame processor. It owns the control state and the pinch
// debouncer; ProcessFrame and Apply must be called from a single goroutine.
// Snapshot may be called from any goroutine.
type Processor struct {
	cfg       Config
	state     control.State
	debouncer *gesture.Debouncer
	synth     SynthSink
	visual    VisualSink
	log       *zap.Logger
	metrics   *metrics.Manager
	onEvent   func(control.Event, control.Snapshot)
	snapshot  atomic.Pointer[control.Snapshot]
}

// New creates a Processor. Nil sinks discard their messages.
func New(cfg Config, synth SynthSink, visual VisualSink, opts ...Option) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if synth == nil {
		synth = Discard{}
	}
	if visual == nil {
		visual = Discard{}
	}

	p := &Processor{
		cfg:       cfg,
		state:     control.NewState(),
		debouncer: gesture.NewDebouncer(cfg.Thresholds),
		synth:     synth,
		visual:    visual,
		log:       zap.NewNop(),
	}
	p.state.SampleDuration = cfg.SampleDuration

	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.Named("engine")
	p.publish()

	return p, nil
}

// ProcessFrame runs one frame of hands through the processor.
func (p *Processor) ProcessFrame(hands []detector.HandLandmarks) FrameResult {
	start := time.Now()
	var result FrameResult

	left, right := detector.PickSides(hands)
	if len(hands) > 2 {
		p.log.Debug("ignoring extra hands", zap.Int("hands", len(hands)))
	}

	for _, hand := range []*detector.HandLandmarks{left, right} {
		if hand != nil {
			p.sendHand(hand)
		}
	}

	switch p.state.Mode {
	case control.Drum:
		p.state.Frozen = false
		if right != nil {
			result.Triggers = p.drumHand(right, control.RightIndex, control.RightMiddle, result.Triggers)
		}
		if left != nil {
			result.Triggers = p.drumHand(left, control.LeftIndex, control.LeftMiddle, result.Triggers)
		}

	case control.Synth:
		p.state.Frozen = left != nil && gesture.IsFist(left)
		if !p.state.Frozen && right != nil {
			p.updateParameters(right)
			p.emitVector()
			result.Emitted = true
		}
	}

	result.Frozen = p.state.Frozen
	p.publish()
	p.metrics.ObserveFrame(time.Since(start), result.Frozen)

	return result
}

// Apply applies a control event. A rejected event leaves the state untouched
// and is reported through the log and metrics.
func (p *Processor) Apply(ev control.Event) error {
	prevMode := p.state.Mode

	effect, err := ev.Apply(&p.state)
	p.metrics.RecordEvent(ev.Name(), err)
	if err != nil {
		p.log.Warn("rejected control event", zap.String("event", ev.Name()), zap.Error(err))
		return err
	}

	if p.state.Mode != prevMode {
		p.metrics.SetMode(int(p.state.Mode))
		p.log.Info("active page changed", zap.Stringer("mode", p.state.Mode))
	} else {
		p.log.Debug("applied control event", zap.String("event", ev.Name()))
	}

	if effect == control.EffectEmitVector {
		p.emitVector()
	}

	p.publish()
	if p.onEvent != nil {
		p.onEvent(ev, *p.snapshot.Load())
	}
	return nil
}

// State returns a copy of the control state. Only the owning goroutine may call it.
func (p *Processor) State() control.State {
	return p.state
}

// Pinched reports whether slot is currently held pinched.
func (p *Processor) Pinched(slot control.FingerSlot) bool {
	return p.debouncer.Pinched(slot)
}

// Snapshot returns the state as of the last processed frame or event.
func (p *Processor) Snapshot() control.Snapshot {
	return *p.snapshot.Load()
}

func (p *Processor) publish() {
	snap := p.state.Snapshot()
	p.snapshot.Store(&snap)
}

func (p *Processor) sendHand(hand *detector.HandLandmarks) {
	idx := hand.Side.Index()
	var firstErr error
	for i, pt := range hand.Points {
		// Keep going after a failure: other sinks behind a MultiVisual may still be healthy.
		if err := p.visual.SendHandPoint(idx, i, pt.X, pt.Y); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		p.sinkError("visual", firstErr)
	}
}

func (p *Processor) drumHand(hand *detector.HandLandmarks, index, middle control.FingerSlot, triggers []int) []int {
	slots := [2]control.FingerSlot{index, middle}
	tips := [2]int{detector.IndexTip, detector.MiddleTip}

	for i, slot := range slots {
		if !p.debouncer.Update(slot, gesture.ThumbDistance(hand, tips[i])) {
			continue
		}
		sample, ok := p.state.Assignments.Drum.Sample(slot)
		if !ok {
			p.log.Debug("pinch on unassigned slot", zap.Stringer("slot", slot))
			continue
		}
		if err := p.synth.SendTrigger(sample); err != nil {
			p.sinkError("synth", err)
		}
		p.metrics.RecordDrumTrigger()
		triggers = append(triggers, sample)
	}
	return triggers
}

func (p *Processor) updateParameters(hand *detector.HandLandmarks) {
	distances := gesture.FingerDistances(hand)

	for i, dist := range distances {
		param, ok := p.state.Assignments.Synth.For(i)
		if !ok {
			continue
		}
		v, err := p.cfg.Curves.Compute(param, dist, p.state.SampleDuration)
		if err != nil {
			p.log.Warn("curve mapping failed", zap.Stringer("parameter", param), zap.Error(err))
			continue
		}
		p.state.Set(param, v)
	}
}

func (p *Processor) emitVector() {
	v := p.state.Values
	if err := p.synth.SendParameters(v); err != nil {
		p.sinkError("synth", err)
	}
	if err := p.visual.SendParameters(v); err != nil {
		p.sinkError("visual", err)
	}
	p.metrics.RecordParameterVector()
}

func (p *Processor) sinkError(sink string, err error) {
	p.metrics.RecordSinkError(sink)
	p.log.Debug("sink send failed", zap.String("sink", sink), zap.Error(err))
}

package detector

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReplaySource plays back recorded frames. Each non-empty line of the input is
// one frame: a JSON array of hands in the same shape the MediaPipe service emits.
type ReplaySource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// NewReplaySource reads frames from r.
func NewReplaySource(r io.Reader) *ReplaySource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	s := &ReplaySource{scanner: scanner}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// OpenReplayFile opens a recorded landmark file.
func OpenReplayFile(path string) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	return NewReplaySource(f), nil
}

// Next returns the hands of the next recorded frame, or io.EOF when the
// recording ends. A malformed line ends the stream with an error.
func (s *ReplaySource) Next(ctx context.Context) ([]HandLandmarks, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("read replay: %w", err)
			}
			return nil, io.EOF
		}
		s.line++

		text := strings.TrimSpace(s.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var raw []WireHand
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("replay line %d: %w", s.line, err)
		}

		hands := make([]HandLandmarks, 0, len(raw))
		for _, h := range raw {
			hand, err := h.Landmarks()
			if err != nil {
				return nil, fmt.Errorf("replay line %d: %w", s.line, err)
			}
			hands = append(hands, hand)
		}
		return hands, nil
	}
}

// Close releases the underlying reader if it is closable.
func (s *ReplaySource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// EncodeFrame renders one frame of hands as a replay line.
func EncodeFrame(hands []HandLandmarks) ([]byte, error) {
	raw := make([]WireHand, len(hands))
	for i, h := range hands {
		raw[i] = WireHand{
			Points:     h.Points[:],
			Handedness: string(h.Side),
			Score:      h.Score,
		}
	}
	return json.Marshal(raw)
}

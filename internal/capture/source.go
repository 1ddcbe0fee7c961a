package capture

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ayusman/handgrain/internal/detector"
)

// MaxConsecutiveFailures is how many frames in a row may fail to read or
// detect before the source gives up.
const MaxConsecutiveFailures = 30

// HandSource reads camera frames and runs them through a detector. It
// implements detector.Source.
type HandSource struct {
	camera   Camera
	detector Detector
	log      *zap.Logger
	failures int
}

// NewHandSource opens camera and pairs it with det.
func NewHandSource(camera Camera, det Detector, log *zap.Logger) (*HandSource, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := camera.Open(); err != nil {
		return nil, fmt.Errorf("open camera: %w", err)
	}
	return &HandSource{camera: camera, detector: det, log: log.Named("capture")}, nil
}

// Next blocks until a frame has been read and analysed. Isolated read or
// detection failures are skipped; MaxConsecutiveFailures of them end the
// stream with an error. A MockCamera that runs dry ends it with io.EOF.
func (s *HandSource) Next(ctx context.Context) ([]detector.HandLandmarks, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hands, err := s.read()
		if err == nil {
			s.failures = 0
			return hands, nil
		}
		if errors.Is(err, ErrNoFrames) {
			return nil, io.EOF
		}
		if errors.Is(err, ErrCameraNotOpen) {
			return nil, err
		}

		s.failures++
		s.log.Warn("frame skipped", zap.Int("consecutive", s.failures), zap.Error(err))
		if s.failures >= MaxConsecutiveFailures {
			return nil, fmt.Errorf("giving up after %d failed frames: %w", s.failures, err)
		}
	}
}

func (s *HandSource) read() ([]detector.HandLandmarks, error) {
	mat, err := s.camera.ReadFrame()
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	hands, err := s.detector.Detect(mat)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	return hands, nil
}

// Close releases the camera and the detector.
func (s *HandSource) Close() error {
	return errors.Join(s.camera.Close(), s.detector.Close())
}

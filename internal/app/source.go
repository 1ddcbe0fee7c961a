package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/handgrain/internal/capture"
	"github.com/ayusman/handgrain/internal/config"
	"github.com/ayusman/handgrain/internal/detector"
)

// CameraSource opens the configured camera and hand detector. When the
// MediaPipe service is unavailable a mock detector that sees no hands is
// used, so the rest of the pipeline still runs.
func CameraSource(settings *config.Config, log *zap.Logger) (detector.Source, error) {
	var det capture.Detector
	if mp, err := capture.NewMediaPipeDetector(settings.Detector(), log); err == nil {
		det = mp
		log.Info("using MediaPipe hand detection")
	} else {
		log.Warn("MediaPipe not available, using mock detector", zap.Error(err))
		det = capture.NewMockDetector()
	}

	camera := capture.NewCamera(capture.Config{
		DeviceID: settings.CameraID,
		FPS:      capture.DefaultFPS,
		Mirror:   settings.Mirror,
	})

	src, err := capture.NewHandSource(camera, det, log)
	if err != nil {
		det.Close()
		return nil, err
	}
	return src, nil
}

// pacedSource delivers frames no faster than one per interval.
type pacedSource struct {
	src    detector.Source
	ticker *time.Ticker
}

// Paced limits src to fps frames per second. A non-positive fps returns src unchanged.
func Paced(src detector.Source, fps float64) detector.Source {
	if fps <= 0 {
		return src
	}
	return &pacedSource{
		src:    src,
		ticker: time.NewTicker(time.Duration(float64(time.Second) / fps)),
	}
}

func (p *pacedSource) Next(ctx context.Context) ([]detector.HandLandmarks, error) {
	select {
	case <-p.ticker.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return p.src.Next(ctx)
}

func (p *pacedSource) Close() error {
	p.ticker.Stop()
	return p.src.Close()
}

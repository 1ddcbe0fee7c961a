package config_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/ayusman/handgrain/internal/config"
)

var configEnvVars = []string{
	"HANDGRAIN_CONFIG",
	"HANDGRAIN_SYNTH_ADDR",
	"HANDGRAIN_PINCH_THRESHOLD",
	"HANDGRAIN_MIRROR",
	"HANDGRAIN_CAMERA_ID",
	"HANDGRAIN_DISTANCE_MIN",
}

func clearConfigEnvVars() {
	for _, name := range configEnvVars {
		_ = os.Unsetenv(name)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "handgrain.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then the tuned defaults are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SynthAddr, convey.ShouldEqual, "127.0.0.1:9001")
				convey.So(cfg.OSCListenAddr, convey.ShouldEqual, "127.0.0.1:9002")
				convey.So(cfg.VisualAddr, convey.ShouldEqual, "127.0.0.1:9003")
				convey.So(cfg.PinchThreshold, convey.ShouldEqual, 0.05)
				convey.So(cfg.ReleaseThreshold, convey.ShouldEqual, 0.08)
				convey.So(cfg.CurvePower, convey.ShouldEqual, 2.5)
				convey.So(cfg.MaxHands, convey.ShouldEqual, 2)
				convey.So(cfg.MinConfidence, convey.ShouldEqual, 0.7)
				convey.So(cfg.Mirror, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HANDGRAIN_SYNTH_ADDR", "10.0.0.2:7000")
			_ = os.Setenv("HANDGRAIN_PINCH_THRESHOLD", "0.04")
			_ = os.Setenv("HANDGRAIN_MIRROR", "false")
			_ = os.Setenv("HANDGRAIN_CAMERA_ID", "2")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then env vars override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SynthAddr, convey.ShouldEqual, "10.0.0.2:7000")
				convey.So(cfg.PinchThreshold, convey.ShouldEqual, 0.04)
				convey.So(cfg.Mirror, convey.ShouldBeFalse)
				convey.So(cfg.CameraID, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeConfigFile(t, `
synth_addr: "127.0.0.1:9101"
sample_duration: 4.5
distance_max: 0.5
tray: true
`)
			_ = os.Setenv("HANDGRAIN_CONFIG", path)

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then file values are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SynthAddr, convey.ShouldEqual, "127.0.0.1:9101")
				convey.So(cfg.SampleDuration, convey.ShouldEqual, 4.5)
				convey.So(cfg.DistanceMax, convey.ShouldEqual, 0.5)
				convey.So(cfg.Tray, convey.ShouldBeTrue)
			})

			convey.Convey("And env vars take precedence over the file", func() {
				_ = os.Setenv("HANDGRAIN_SYNTH_ADDR", "127.0.0.1:9201")

				cfg, err := config.Load(ctx, "")
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SynthAddr, convey.ShouldEqual, "127.0.0.1:9201")
			})
		})

		convey.Convey("When an explicit path is given", func() {
			path := writeConfigFile(t, "visual_addr: \"127.0.0.1:9303\"\n")

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then it is read without HANDGRAIN_CONFIG", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.VisualAddr, convey.ShouldEqual, "127.0.0.1:9303")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the distance band is degenerate", func() {
			_ = os.Setenv("HANDGRAIN_DISTANCE_MIN", "0.7")

			_, err := config.Load(ctx, "")

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		cfg := config.New()

		convey.Convey("It validates", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Thresholds out of order are rejected", func() {
			cfg.PinchThreshold, cfg.ReleaseThreshold = 0.1, 0.05
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Equal thresholds leave no dead band and are rejected", func() {
			cfg.PinchThreshold, cfg.ReleaseThreshold = 0.05, 0.05
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("A non-positive sample duration is rejected", func() {
			cfg.SampleDuration = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("A non-finite sample duration is rejected", func() {
			cfg.SampleDuration = math.NaN()
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			cfg.SampleDuration = math.Inf(1)
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("An empty synth address is rejected", func() {
			cfg.SynthAddr = ""
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Engine settings carry the curve and thresholds", func() {
			cfg.DistanceMax = 0.6
			cfg.PinchThreshold = 0.03
			ec := cfg.Engine()
			convey.So(ec.Curves.DistanceMax, convey.ShouldEqual, 0.6)
			convey.So(ec.Thresholds.Pinch, convey.ShouldEqual, 0.03)
			convey.So(cfg.Detector().MaxHands, convey.ShouldEqual, 2)
		})
	})
}

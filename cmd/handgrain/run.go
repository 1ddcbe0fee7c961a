package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/handgrain/internal/app"
	"github.com/ayusman/handgrain/internal/tray"
)

func newRunCmd(setup func(context.Context) (*env, error)) *cobra.Command {
	var withTray bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Track hands from the camera and drive the synth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			src, err := app.CameraSource(e.settings, e.log)
			if err != nil {
				return fmt.Errorf("open camera: %w", err)
			}
			defer src.Close()

			if !withTray && !e.settings.Tray {
				return e.app.Run(ctx, src)
			}
			return runWithTray(ctx, e, func(ctx context.Context) error {
				return e.app.Run(ctx, src)
			})
		},
	}
	cmd.Flags().BoolVar(&withTray, "tray", false, "show a system tray menu")
	return cmd
}

// runWithTray keeps the tray on the calling goroutine, which systray needs,
// and runs the pipeline beside it. Either side stopping ends both.
func runWithTray(ctx context.Context, e *env, run func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t := tray.New()
	e.app.BindTray(ctx, t, cancel)
	if e.settings.HTTPAddr != "" {
		url := "http://" + e.settings.HTTPAddr
		t.OnSettings(func() {
			e.log.Info("settings available", zap.String("url", url))
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- run(ctx)
		t.Quit()
	}()
	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	t.Run()
	cancel()
	return <-done
}

package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/handgrain/internal/app"
	"github.com/ayusman/handgrain/internal/detector"
)

func newReplayCmd(setup func(context.Context) (*env, error)) *cobra.Command {
	var fps float64

	cmd := &cobra.Command{
		Use:   "replay <file.jsonl>",
		Short: "Feed recorded hand landmarks through the engine",
		Long: "Replay reads one JSON array of hands per line and processes each line as a frame,\n" +
			"sending the same OSC messages a live camera session would.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			src, err := detector.OpenReplayFile(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("fps") {
				fps = e.settings.ReplayFPS
			}
			paced := app.Paced(src, fps)
			defer paced.Close()

			e.log.Info("replaying", zap.String("file", args[0]), zap.Float64("fps", fps))
			return e.app.Run(ctx, paced)
		},
	}
	cmd.Flags().Float64Var(&fps, "fps", 0, "frames per second, 0 for as fast as possible (default from replay_fps)")
	return cmd
}

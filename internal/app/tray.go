package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/handgrain/internal/control"
	"github.com/ayusman/handgrain/internal/tray"
)

const trayRefresh = 250 * time.Millisecond

// BindTray routes tray clicks into the session and keeps the tray status in
// step with the engine until ctx is done. quit is called from "Quit".
func (a *App) BindTray(ctx context.Context, t *tray.Tray, quit func()) {
	post := func(ev control.Event) {
		if err := a.session.Post(ctx, ev); err != nil {
			a.log.Debug("tray event dropped", zap.String("event", ev.Name()), zap.Error(err))
		}
	}

	t.OnPage(func(mode control.Mode) {
		post(control.SetActivePage{Page: mode.String()})
	})
	t.OnReset(func() {
		post(control.ResetParameters{})
	})
	t.OnQuit(quit)

	go func() {
		ticker := time.NewTicker(trayRefresh)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.SetStatus(a.session.Snapshot())
			}
		}
	}()
}

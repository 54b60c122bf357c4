package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/getlantern/systray"
	"github.com/retime/retime-agent/internal/history"
	"github.com/retime/retime-agent/internal/host"
)

type Tray struct {
	bridge *host.Bridge
	repo   history.Repository
	logger *slog.Logger

	panelItem *systray.MenuItem
	batchItem *systray.MenuItem

	mu sync.Mutex

	onQuit func()
}

type TrayConfig struct {
	Bridge     *host.Bridge
	Repository history.Repository
	Logger     *slog.Logger
	OnQuit     func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		bridge: cfg.Bridge,
		repo:   cfg.Repository,
		logger: cfg.Logger,
		onQuit: cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Retime")
	systray.SetTooltip("Retime Agent")

	t.panelItem = systray.AddMenuItem("Panel: not connected", "Host panel bridge state")
	t.panelItem.Disable()

	t.batchItem = systray.AddMenuItem("Last batch: none", "Most recent batch run")
	t.batchItem.Disable()

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Retime Agent")

	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.refresh()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bridge != nil && t.bridge.Connected() {
		t.panelItem.SetTitle("Panel: connected")
	} else {
		t.panelItem.SetTitle("Panel: not connected")
	}

	if t.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	batches, err := t.repo.ListBatches(ctx, 1)
	if err != nil || len(batches) == 0 {
		return
	}
	b := batches[0]
	t.batchItem.SetTitle(fmt.Sprintf("Last batch: %s (%d items, %s)", b.Status, b.ItemCount, b.Mode))
}

func (t *Tray) Quit() {
	systray.Quit()
}

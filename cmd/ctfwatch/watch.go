package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ctfwatch/ctfwatch/internal/cache"
	"github.com/ctfwatch/ctfwatch/internal/catalog"
	"github.com/ctfwatch/ctfwatch/internal/config"
	"github.com/ctfwatch/ctfwatch/internal/notify"
	"github.com/ctfwatch/ctfwatch/internal/watcher"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run one watch cycle over the CTF catalog",
		Long: `Run the reminder pass over tracked events, then the discovery pass
over the full catalog. Exits after one cycle unless --loop is given.`,
		RunE: runWatch,
	}

	// Flags
	cmd.Flags().Bool("loop", false, "Keep running, one cycle per interval")
	cmd.Flags().Duration("interval", 30*time.Minute, "Cycle interval in loop mode")

	// Bind to viper
	_ = viper.BindPFlag("watch.loop", cmd.Flags().Lookup("loop"))
	_ = viper.BindPFlag("watch.interval", cmd.Flags().Lookup("interval"))

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.UserAgent, cfg.Catalog.Timeout)
	if err != nil {
		return err
	}

	mailer, err := notify.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.Email.From, cfg.Email.To)
	if err != nil {
		return err
	}

	store := cache.NewStore(cfg.Cache.Path)
	w := watcher.New(client, mailer, store, cfg.Watch.DetailDelay, cfg.Watch.ReminderWindow)

	if !viper.GetBool("watch.loop") {
		return runCycle(ctx, w)
	}

	slog.Info("watching in loop mode", "interval", cfg.Watch.Interval)
	ticker := time.NewTicker(cfg.Watch.Interval)
	defer ticker.Stop()

	if err := runCycle(ctx, w); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			slog.Info("loop stopped")
			return nil
		case <-ticker.C:
			if err := runCycle(ctx, w); err != nil {
				return err
			}
		}
	}
}

// runCycle runs one cycle; cancellation mid-cycle is a clean stop, not
// an error.
func runCycle(ctx context.Context, w *watcher.Watcher) error {
	if err := w.Run(ctx); err != nil {
		if ctx.Err() != nil {
			slog.Info("cycle interrupted")
			return nil
		}
		return err
	}
	return nil
}

// Package watcher orchestrates one watch cycle over the remote catalog:
// a reminder pass over tracked events followed by a discovery pass over
// the full listing. It is the only component that mutates the cache.
package watcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/ctfwatch/ctfwatch/internal/cache"
	"github.com/ctfwatch/ctfwatch/internal/classify"
	"github.com/ctfwatch/ctfwatch/internal/common"
	"github.com/ctfwatch/ctfwatch/internal/model"
	"github.com/ctfwatch/ctfwatch/internal/notify"
)

// Catalog is the remote catalog collaborator. EventDetail returns
// (nil, nil) when the record is absent; both absence and errors are
// per-item skips for the watcher.
type Catalog interface {
	ListEvents(ctx context.Context) ([]model.EventSummary, error)
	EventDetail(ctx context.Context, slug string) (*model.EventDetail, error)
	EventURL(slug string) string
	Origin() string
}

// Sender delivers a composed notification.
type Sender interface {
	Send(ctx context.Context, msg notify.Message) error
}

// Watcher runs complete, independent cycles. Each run loads the cache,
// persists after every mutation, and exits; non-overlap of runs is the
// external scheduler's responsibility.
type Watcher struct {
	catalog        Catalog
	sender         Sender
	store          *cache.Store
	detailDelay    time.Duration
	reminderWindow time.Duration
	now            func() time.Time
}

// New creates a watcher. detailDelay is the politeness pause before each
// detail fetch during discovery; reminderWindow is the look-ahead inside
// which a tracked event triggers its single reminder.
func New(catalog Catalog, sender Sender, store *cache.Store, detailDelay, reminderWindow time.Duration) *Watcher {
	return &Watcher{
		catalog:        catalog,
		sender:         sender,
		store:          store,
		detailDelay:    detailDelay,
		reminderWindow: reminderWindow,
		now:            time.Now,
	}
}

// Run executes one cycle: reminder pass, then discovery pass. A catalog
// failure aborts only the discovery pass and is logged, never fatal; the
// returned error is non-nil only when the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	c := w.store.Load()
	slog.Info("starting watch cycle", "tracked", len(c))

	w.remind(ctx, c)
	if err := ctx.Err(); err != nil {
		return err
	}

	w.discover(ctx, c)
	return ctx.Err()
}

// remind sends the one-shot reminder for every tracked event whose start
// time falls inside the look-ahead window. Failures are caught per record
// so one bad entry never aborts the pass.
func (w *Watcher) remind(ctx context.Context, c model.Cache) {
	for id, rec := range c {
		if ctx.Err() != nil {
			return
		}
		if rec.ReminderSent || rec.StartsAt == "" {
			continue
		}

		start, err := time.Parse(time.RFC3339, rec.StartsAt)
		if err != nil {
			slog.Warn("unparseable start time, skipping reminder", "id", id, "starts_at", rec.StartsAt, "error", err)
			continue
		}

		until := start.Sub(w.now())
		if until < 0 || until > w.reminderWindow {
			continue
		}

		// Re-fetch detail for the display name. A failed fetch skips
		// this record without setting the flag, so it retries next run.
		detail, err := w.catalog.EventDetail(ctx, rec.Slug)
		if err != nil {
			slog.Warn("reminder detail fetch failed", "id", id, "slug", rec.Slug, "error", err)
			continue
		}
		if detail == nil {
			slog.Warn("reminder detail absent", "id", id, "slug", rec.Slug)
			continue
		}

		name := detail.Name
		if name == "" {
			name = rec.Slug
		}

		msg := notify.ComposeReminder(name, rec.Slug, rec.StartsAt, w.catalog.EventURL(rec.Slug))
		if err := w.sender.Send(ctx, msg); err != nil {
			common.LogError(err, "reminder send failed", common.Fields{"id": id, "name": name})
			continue
		}

		// Persist only after a confirmed send; a lost save is replayed
		// as a duplicate reminder on the next run, never a dropped one.
		rec.ReminderSent = true
		rec.Checked = w.now().UTC().Format(time.RFC3339)
		w.persist(c)
		slog.Info("reminder sent", "id", id, "name", name, "starts_in", until.Round(time.Minute))
	}
}

// discover sweeps the catalog for identifiers with no tracking record,
// classifies each one, and notifies on the first positive classification.
// Ineligible events are never persisted and get re-evaluated every run.
func (w *Watcher) discover(ctx context.Context, c model.Cache) {
	events, err := w.catalog.ListEvents(ctx)
	if err != nil {
		common.LogError(err, "catalog fetch failed, skipping discovery pass", nil)
		return
	}

	found := 0
	for _, ev := range events {
		if ev.ID == "" {
			continue
		}
		if _, tracked := c[ev.ID]; tracked {
			continue
		}

		if !w.pause(ctx) {
			return
		}

		detail, err := w.catalog.EventDetail(ctx, ev.Slug)
		if err != nil {
			slog.Warn("detail fetch failed", "id", ev.ID, "slug", ev.Slug, "error", err)
			continue
		}
		if detail == nil {
			slog.Debug("detail absent", "id", ev.ID, "slug", ev.Slug)
			continue
		}

		eligible, credential := classify.Classify(detail)
		if !eligible {
			slog.Debug("event requires a code with no extractable credential", "id", ev.ID, "name", ev.Name)
			continue
		}

		msg := notify.ComposeDiscovery(ev, detail, credential, w.catalog.Origin(), w.catalog.EventURL(ev.Slug))
		if err := w.sender.Send(ctx, msg); err != nil {
			common.LogError(err, "discovery send failed", common.Fields{"id": ev.ID, "name": ev.Name})
			continue
		}

		startsAt := ev.StartsAt
		if startsAt == "" {
			startsAt = detail.StartsAt
		}
		c[ev.ID] = &model.TrackingRecord{
			Slug:     ev.Slug,
			Checked:  w.now().UTC().Format(time.RFC3339),
			StartsAt: startsAt,
		}
		w.persist(c)
		found++
		slog.Info("new event notified", "id", ev.ID, "name", ev.Name, "has_credential", credential != "")
	}

	slog.Info("discovery pass complete", "new_events", found, "catalog_size", len(events))
}

// pause sleeps the inter-request delay, returning false if the context
// is canceled first.
func (w *Watcher) pause(ctx context.Context) bool {
	if w.detailDelay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.detailDelay):
		return true
	}
}

// persist saves the cache after a mutation. A save failure is logged and
// the run continues; the in-memory state stays ahead of disk and the
// mutation is replayed on the next run if the process dies first.
func (w *Watcher) persist(c model.Cache) {
	if err := w.store.Save(c); err != nil {
		common.LogError(err, "cache save failed", common.Fields{"path": w.store.Path()})
	}
}

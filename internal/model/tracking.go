package model

// TrackingRecord marks an event identifier that has passed eligibility
// classification. Only eligible events are ever persisted; everything
// else is re-evaluated on every run.
type TrackingRecord struct {
	Slug         string `json:"slug"`
	Checked      string `json:"checked"`             // RFC3339, UTC, last time the record was touched
	StartsAt     string `json:"starts_at,omitempty"` // empty when the catalog did not provide one
	ReminderSent bool   `json:"reminder_sent"`
}

// Cache maps event identifier to its tracking record. It is the sole
// durable state of the watcher.
type Cache map[string]*TrackingRecord

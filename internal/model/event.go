// Package model defines the core types shared across the watcher.
package model

import "strings"

// EventSummary is one entry in the remote catalog listing.
type EventSummary struct {
	ID       string // unique, stable across runs
	Name     string
	OrgName  string
	Slug     string
	StartsAt string // catalog timestamp, RFC3339
	EndsAt   string
}

// EventDetail is the richer per-event record fetched on demand. All
// fields are optional on the wire; absent fields arrive empty.
type EventDetail struct {
	Name             string
	OrgName          string
	StartsAt         string
	EndsAt           string
	Description      string
	LongDescription  string
	ShortDescription string
	Instructions     string
	JoinInstructions string
	Banner           string
	Logo             string
	Avatar           string
	Image            string
	BannerImage      string
	HasCode          bool
}

// FreeText joins every free-text field for credential extraction.
func (d *EventDetail) FreeText() string {
	return strings.Join([]string{
		d.Description,
		d.LongDescription,
		d.ShortDescription,
		d.Instructions,
		d.JoinInstructions,
	}, "\n")
}

// BannerCandidates returns the image references in resolution order.
func (d *EventDetail) BannerCandidates() []string {
	return []string{d.Banner, d.Logo, d.Avatar, d.Image, d.BannerImage}
}

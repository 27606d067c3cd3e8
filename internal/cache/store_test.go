package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctfwatch/ctfwatch/internal/model"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctf_cache.json")
	store := NewStore(path)

	c := model.Cache{
		"101": {
			Slug:     "spring-open",
			Checked:  "2026-08-24T10:00:00Z",
			StartsAt: "2026-08-29T13:00:00Z",
		},
		"202": {
			Slug:         "invite-only-quals",
			Checked:      "2026-08-24T10:00:01Z",
			ReminderSent: true,
		},
	}

	require.NoError(t, store.Save(c))

	got := store.Load()
	assert.Equal(t, c, got)
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"))

	got := store.Load()
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStoreLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctf_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json at all"), 0o644))

	got := NewStore(path).Load()
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStoreSaveRewritesInFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctf_cache.json")
	store := NewStore(path)

	big := model.Cache{
		"1": {Slug: "one", Checked: "2026-08-24T10:00:00Z"},
		"2": {Slug: "two", Checked: "2026-08-24T10:00:00Z"},
		"3": {Slug: "three", Checked: "2026-08-24T10:00:00Z"},
	}
	require.NoError(t, store.Save(big))

	small := model.Cache{
		"1": {Slug: "one", Checked: "2026-08-24T11:00:00Z"},
	}
	require.NoError(t, store.Save(small))

	got := store.Load()
	assert.Equal(t, small, got)
}

func TestStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "ctf_cache.json"))

	require.NoError(t, store.Save(model.Cache{"1": {Slug: "one"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ctf_cache.json", entries[0].Name())
}

func TestStoreFileIsHumanReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctf_cache.json")
	store := NewStore(path)

	require.NoError(t, store.Save(model.Cache{
		"7": {Slug: "weekend-ctf", Checked: "2026-08-24T10:00:00Z", StartsAt: "2026-08-30T09:00:00Z"},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"reminder_sent\": false")
	assert.Contains(t, string(data), "\"slug\": \"weekend-ctf\"")
}

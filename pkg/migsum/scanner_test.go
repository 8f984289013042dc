package migsum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSourceOrdersAndFilters(t *testing.T) {
	src := newMemSource(map[string]string{
		"20240102090000_add_users.up.sql":   "b",
		"20240101120000_init.up.sql":        "a",
		"20240101120000_init.down.sql":      "a'",
		"20240102090000_add_users.down.sql": "b'",
		"README.md":                         "docs",
		"migsum.sum":                        "not scanned",
		"notes.txt":                         "skip",
	})

	entries, err := ScanSource(src)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Filename)
	}
	assert.Equal(t, []string{
		"20240101120000_init.down.sql",
		"20240101120000_init.up.sql",
		"20240102090000_add_users.down.sql",
		"20240102090000_add_users.up.sql",
	}, names)

	assert.Equal(t, "20240101120000", entries[0].Version)
	assert.Equal(t, "init", entries[0].Name)
	assert.Equal(t, DirectionDown, entries[0].Direction)
	assert.Equal(t, "20240101120000_init", entries[0].Key())
}

func TestScanSourceRejectsDuplicateVersionToken(t *testing.T) {
	src := newMemSource(map[string]string{
		"20240101120000_first.up.sql":  "a",
		"20240101120000_second.up.sql": "b",
	})

	_, err := ScanSource(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate version token")
}

func TestScanSourceRejectsBlankName(t *testing.T) {
	src := newMemSource(map[string]string{
		"20240101120000_ .up.sql": "a",
	})

	_, err := ScanSource(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration name")
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20240101120000_init.up.sql", "CREATE TABLE t;")
	writeFile(t, dir, "skipped.sql", "no version token")

	entries, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "20240101120000_init.up.sql", entries[0].Filename)
	// сканер не читает содержимое, его грузят hash/verify
	// the scanner does not read contents, hash/verify load them
	assert.Nil(t, entries[0].Content)
}

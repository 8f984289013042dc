package migsum

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func entry(filename, content string) Entry {
	return Entry{Filename: filename, Content: []byte(content)}
}

func entriesFixture() []Entry {
	return []Entry{
		entry("20240101120000_init.up.sql", "CREATE TABLE t (id bigint);"),
		entry("20240102090000_add_users.up.sql", "CREATE TABLE users (id bigint);"),
		entry("20240103101500_add_index.up.sql", "CREATE INDEX users_id ON users (id);"),
	}
}

func sumOf(t require.TestingT, entries []Entry) *SumFile {
	sum, err := Update(NewSumFile(), entries)
	require.NoError(t, err)
	return sum
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// memSource это Source в памяти для тестов.
// memSource is an in-memory Source for tests.
type memSource struct {
	files map[string][]byte
}

func newMemSource(files map[string]string) *memSource {
	src := &memSource{files: make(map[string][]byte, len(files))}
	for name, content := range files {
		src.files[name] = []byte(content)
	}
	return src
}

func (s *memSource) Names() ([]string, error) {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	return names, nil
}

func (s *memSource) Read(name string) ([]byte, error) {
	content, ok := s.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return content, nil
}

func (s *memSource) Write(name string, data []byte) error {
	s.files[name] = append([]byte(nil), data...)
	return nil
}

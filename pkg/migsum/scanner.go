package migsum

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var migrationPattern = regexp.MustCompile(`^(\d{14})_(.+)\.(up|down)\.sql$`)

// ScanSource читает список файлов источника и парсит метаданные миграций.
// Вход: источник с перечислением файлов.
// Выход: упорядоченный список Entry без содержимого или error.
// Назначение: получить детерминированный список для hash/verify;
// одинаковый токен версии у разных миграций отклоняется, порядок
// обязан быть тотальным.
// ScanSource reads the source file listing and parses migration metadata.
// Input: a source that lists files.
// Output: ordered Entry list without contents, or error.
// Purpose: produce the deterministic list for hash/verify; one version
// token shared by differently named migrations is rejected, the order
// must be total.
func ScanSource(src Source) ([]Entry, error) {
	names, err := src.Names()
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var entries []Entry
	for _, name := range names {
		match := migrationPattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}

		migrationName := strings.TrimSpace(match[2])
		if migrationName == "" {
			return nil, fmt.Errorf("invalid migration name in file: %s", name)
		}

		entries = append(entries, Entry{
			Version:   match[1],
			Name:      migrationName,
			Direction: Direction(match[3]),
			Filename:  name,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].sortKey().less(entries[j].sortKey())
	})

	for i := 1; i < len(entries); i++ {
		if err := checkOrder(entries[i-1].sortKey(), entries[i].sortKey()); err != nil {
			return nil, err
		}
	}

	return entries, nil
}

// ScanDir сканирует директорию файловой системы.
// ScanDir scans a filesystem directory.
func ScanDir(dir string) ([]Entry, error) {
	return ScanSource(DirSource{Dir: dir})
}

// sortKey это ключ тотального порядка миграций: версия, имя, направление.
// sortKey is the total migration ordering key: version, name, direction.
type sortKey struct {
	version   string
	name      string
	direction Direction
}

func (k sortKey) less(o sortKey) bool {
	if k.version != o.version {
		return k.version < o.version
	}
	if k.name != o.name {
		return k.name < o.name
	}
	return k.direction < o.direction
}

// parseFilename разбирает имя файла миграции в ключ порядка.
// parseFilename parses a migration file name into an ordering key.
func parseFilename(filename string) (sortKey, bool) {
	match := migrationPattern.FindStringSubmatch(filename)
	if match == nil {
		return sortKey{}, false
	}
	name := strings.TrimSpace(match[2])
	if name == "" {
		return sortKey{}, false
	}
	return sortKey{version: match[1], name: name, direction: Direction(match[3])}, true
}

// checkOrder требует строгого возрастания ключей и запрещает один
// токен версии у разных миграций (up/down пара делит версию и имя).
// checkOrder requires strictly increasing keys and forbids one version
// token across different migrations (an up/down pair shares version and name).
func checkOrder(prev, cur sortKey) error {
	if cur.version == prev.version && cur.name != prev.name {
		return fmt.Errorf("duplicate version token %s (%s and %s)", cur.version, prev.name, cur.name)
	}
	if !prev.less(cur) {
		return fmt.Errorf("migration %s_%s is out of order", cur.version, cur.name)
	}
	return nil
}

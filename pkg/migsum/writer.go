package migsum

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrOrderViolation означает, что новая миграция сортируется не после
// последней записанной; такая цепочка не создаётся.
// ErrOrderViolation means a new migration does not sort after the last
// recorded one; such a chain is never created.
var ErrOrderViolation = errors.New("migration order violation")

// ErrDirtyDir означает, что директория расходится с записанной историей
// и sum-файл поверх неё писать нельзя.
// ErrDirtyDir means the directory disagrees with recorded history, so a
// sum file must not be written over it.
var ErrDirtyDir = errors.New("migrations dir is inconsistent with sum file")

// Update складывает новые записи в хвост цепочки.
// Вход: текущий самосогласованный sum и новые Entry с содержимым,
// идущие строго после записанной истории.
// Выход: новый SumFile или error при нарушении порядка версий.
// Назначение: дописывание не пересчитывает хеши старых файлов — цепочка
// продолжается от последнего дайджеста, прежние строки остаются
// байт-в-байт теми же.
// Update folds new entries onto the tail of the chain.
// Input: the current self-consistent sum and new Entry values with
// contents, sorting strictly after recorded history.
// Output: a new SumFile, or error on a version ordering violation.
// Purpose: appending never rehashes old files — the chain continues
// from the last digest, prior lines stay byte-identical.
func Update(sum *SumFile, newEntries []Entry) (*SumFile, error) {
	next := &SumFile{
		Digest:  sum.Digest,
		Entries: append([]SumEntry(nil), sum.Entries...),
	}

	var last sortKey
	haveLast := false
	if n := len(sum.Entries); n > 0 {
		key, ok := parseFilename(sum.Entries[n-1].Filename)
		if !ok {
			return nil, fmt.Errorf("%w: recorded entry %s is not a migration file", ErrCorruptSum, sum.Entries[n-1].Filename)
		}
		last, haveLast = key, true
	}

	for _, e := range newEntries {
		key, ok := parseFilename(e.Filename)
		if !ok {
			return nil, fmt.Errorf("%s is not a migration file", e.Filename)
		}
		if haveLast {
			if err := checkOrder(last, key); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrOrderViolation, err)
			}
		}
		last, haveLast = key, true

		next.Digest = Fold(next.Digest, e.Filename, LeafHash(e.Content))
		next.Entries = append(next.Entries, SumEntry{Filename: e.Filename, Checkpoint: next.Digest})
	}

	return next, nil
}

// WriteSum обновляет sum-файл директории источника.
// Вход: cfg с именем sum-файла, src с файлами миграций.
// Выход: имена добавленных миграций (nil если изменений нет) или error.
// Назначение: артефакт пишется только поверх чистой директории и только
// целиком; при любой ошибке существующий sum-файл не меняется.
// WriteSum updates the sum file of a source directory.
// Input: cfg with the sum file name, src with migration files.
// Output: appended migration names (nil when nothing changed), or error.
// Purpose: the artifact is written only over a clean directory and only
// as a whole; on any error the existing sum file stays unchanged.
func WriteSum(cfg Config, src Source) ([]string, error) {
	cfg = cfg.withDefaults()

	entries, err := ScanSource(src)
	if err != nil {
		return nil, err
	}
	if err := loadContents(src, entries); err != nil {
		return nil, err
	}

	sum, err := readSum(cfg, src)
	if err != nil {
		return nil, err
	}

	report := Verify(entries, sum)
	switch report.Status {
	case StatusConsistent:
		return nil, nil
	case StatusPending:
	default:
		return nil, fmt.Errorf("%w: %s", ErrDirtyDir, summarize(report))
	}

	newEntries := entries[len(sum.Entries):]
	for _, e := range newEntries {
		if len(bytes.TrimSpace(e.Content)) == 0 {
			return nil, fmt.Errorf("migration %s is empty", e.Filename)
		}
	}

	next, err := Update(sum, newEntries)
	if err != nil {
		return nil, err
	}
	if err := src.Write(cfg.SumFile, next.Encode()); err != nil {
		return nil, fmt.Errorf("write sum file: %w", err)
	}

	names := make([]string, 0, len(newEntries))
	for _, e := range newEntries {
		names = append(names, e.Filename)
	}
	return names, nil
}

// WriteDir обновляет sum-файл директории файловой системы.
// WriteDir updates the sum file of a filesystem directory.
func WriteDir(cfg Config) ([]string, error) {
	if cfg.MigrationsDir == "" {
		return nil, fmt.Errorf("migrations dir is empty")
	}
	return WriteSum(cfg, DirSource{Dir: cfg.MigrationsDir})
}

func summarize(report *Report) string {
	parts := make([]string, 0, len(report.Findings))
	for _, f := range report.Findings {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "; ")
}

package migsum

import (
	"errors"
	"fmt"
	"io/fs"
)

// Status это итоговая классификация проверки директории.
// Status is the overall classification of a directory check.
type Status string

const (
	// StatusConsistent — директория байт-в-байт совпадает с sum-файлом.
	// StatusConsistent means the directory matches the sum file byte for byte.
	StatusConsistent Status = "consistent"
	// StatusPending — есть только новые, ещё не записанные миграции.
	// StatusPending means only new, not yet recorded migrations exist.
	StatusPending Status = "pending"
	// StatusTampered — содержимое записанного файла изменилось.
	// StatusTampered means a recorded file's content changed.
	StatusTampered Status = "tampered"
	// StatusOrderMismatch — файл переименован, вставлен или удалён не по порядку.
	// StatusOrderMismatch means a file was renamed, inserted or removed out of sequence.
	StatusOrderMismatch Status = "order-mismatch"
	// StatusMissing — записанных миграций стало меньше; история сжалась.
	// StatusMissing means recorded migrations disappeared; history shrank.
	StatusMissing Status = "missing"
	// StatusChainBroken — построчные проверки прошли, но общий дайджест не сошёлся.
	// StatusChainBroken means per-line checks passed but the whole digest disagrees.
	StatusChainBroken Status = "chain-broken"
)

// FindingKind это класс одного расхождения.
// FindingKind is the class of a single discrepancy.
type FindingKind string

const (
	FindingTampered      FindingKind = FindingKind(StatusTampered)
	FindingOrderMismatch FindingKind = FindingKind(StatusOrderMismatch)
	FindingMissing       FindingKind = FindingKind(StatusMissing)
	FindingPending       FindingKind = FindingKind(StatusPending)
	FindingChainBroken   FindingKind = FindingKind(StatusChainBroken)
)

// Finding описывает одно расхождение между директорией и sum-файлом.
// Filename это живой файл (для missing — записанное имя), Recorded это
// записанное имя в той же позиции при order-mismatch.
// Finding describes one discrepancy between the directory and the sum
// file. Filename is the live file (for missing, the recorded name),
// Recorded is the recorded name at the same position for order-mismatch.
type Finding struct {
	Kind     FindingKind
	Filename string
	Recorded string
}

func (f Finding) String() string {
	switch f.Kind {
	case FindingTampered:
		return fmt.Sprintf("%s: content changed since it was recorded", f.Filename)
	case FindingOrderMismatch:
		return fmt.Sprintf("%s: expected recorded migration %s at this position", f.Filename, f.Recorded)
	case FindingMissing:
		return fmt.Sprintf("%s: recorded migration is missing from the directory", f.Filename)
	case FindingPending:
		return fmt.Sprintf("%s: new migration, not yet recorded", f.Filename)
	case FindingChainBroken:
		return "directory digest does not match the recorded digest"
	}
	return string(f.Kind)
}

// Report это результат проверки: классификация и список расхождений.
// Никогда не булево: вызывающему нужно отличать "файл X изменён" от
// "историю переписали".
// Report is the check result: a classification plus discrepancies.
// Never a boolean: callers must tell "file X changed" from "history was
// rewritten" apart.
type Report struct {
	Status   Status
	Findings []Finding
}

// Clean сообщает, полностью ли директория совпадает с sum-файлом.
// Clean reports whether the directory fully matches the sum file.
func (r *Report) Clean() bool {
	return r.Status == StatusConsistent
}

// NeedsUpdate сообщает, что расхождения — это только новые миграции.
// NeedsUpdate reports that the only discrepancies are new migrations.
func (r *Report) NeedsUpdate() bool {
	return r.Status == StatusPending
}

// Pending возвращает имена незаписанных миграций в порядке следования.
// Pending returns unrecorded migration names in sequence order.
func (r *Report) Pending() []string {
	var names []string
	for _, f := range r.Findings {
		if f.Kind == FindingPending {
			names = append(names, f.Filename)
		}
	}
	return names
}

// Verify сверяет живую директорию с разобранным sum-файлом.
// Вход: entries с содержимым в порядке миграций и самосогласованный sum
// (повреждённый артефакт отбрасывается ещё в ParseSum).
// Выход: Report с классификацией и построчными расхождениями.
// Алгоритм: позиционный проход по обеим последовательностям; каждая
// контрольная точка пересчитывается от записанной предыдущей, поэтому
// порча локализуется ровно в своём файле; в конце контрольное сравнение
// свёртки всей записанной части с дайджестом заголовка.
// Verify checks the live directory against a parsed sum file.
// Input: entries with contents in migration order and a self-consistent
// sum (a damaged artifact is already rejected by ParseSum).
// Output: Report with a classification and per-line discrepancies.
// Algorithm: positional walk over both sequences; every checkpoint is
// recomputed from the recorded previous one, so damage is localized to
// exactly its file; a final cross-check folds the whole recorded part
// and compares it to the header digest.
func Verify(entries []Entry, sum *SumFile) *Report {
	report := &Report{}
	recorded := sum.Entries
	walk := min(len(entries), len(recorded))

	ordered := true
	prior := InitialDigest()
	for i := 0; i < walk; i++ {
		live, rec := entries[i], recorded[i]
		if live.Filename != rec.Filename {
			report.Findings = append(report.Findings, Finding{
				Kind:     FindingOrderMismatch,
				Filename: live.Filename,
				Recorded: rec.Filename,
			})
			ordered = false
			break
		}
		if Fold(prior, live.Filename, LeafHash(live.Content)) != rec.Checkpoint {
			report.Findings = append(report.Findings, Finding{
				Kind:     FindingTampered,
				Filename: live.Filename,
			})
		}
		prior = rec.Checkpoint
	}

	for i := len(entries); i < len(recorded); i++ {
		report.Findings = append(report.Findings, Finding{
			Kind:     FindingMissing,
			Filename: recorded[i].Filename,
		})
	}
	if ordered {
		for i := len(recorded); i < len(entries); i++ {
			report.Findings = append(report.Findings, Finding{
				Kind:     FindingPending,
				Filename: entries[i].Filename,
			})
		}
	}

	clean := true
	for _, f := range report.Findings {
		if f.Kind != FindingPending {
			clean = false
			break
		}
	}
	if clean && len(entries) >= len(recorded) {
		if FoldAll(entries[:len(recorded)]) != sum.Digest {
			report.Findings = append(report.Findings, Finding{Kind: FindingChainBroken})
		}
	}

	report.Status = classify(report.Findings, len(entries) < len(recorded))
	return report
}

// classify сводит список расхождений к одному статусу: сжатие истории
// доминирует, иначе класс первого ошибочного расхождения, иначе pending.
// classify reduces the findings to one status: history shrinkage
// dominates, otherwise the first error finding's class, otherwise pending.
func classify(findings []Finding, shrank bool) Status {
	if shrank {
		return StatusMissing
	}
	pending := false
	for _, f := range findings {
		switch f.Kind {
		case FindingPending:
			pending = true
		default:
			return Status(f.Kind)
		}
	}
	if pending {
		return StatusPending
	}
	return StatusConsistent
}

// VerifySource проверяет директорию источника по её sum-файлу.
// Вход: cfg с именем sum-файла, src с файлами миграций.
// Выход: Report или error при IO или повреждённом sum-файле.
// Отсутствующий sum-файл трактуется как пустой: все миграции pending.
// VerifySource checks a source directory against its sum file.
// Input: cfg with the sum file name, src with migration files.
// Output: Report, or error on IO or a corrupt sum file.
// A missing sum file is treated as empty: every migration is pending.
func VerifySource(cfg Config, src Source) (*Report, error) {
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
	return Verify(entries, sum), nil
}

// VerifyDir проверяет директорию файловой системы.
// VerifyDir checks a filesystem directory.
func VerifyDir(cfg Config) (*Report, error) {
	if cfg.MigrationsDir == "" {
		return nil, fmt.Errorf("migrations dir is empty")
	}
	return VerifySource(cfg, DirSource{Dir: cfg.MigrationsDir})
}

func loadContents(src Source, entries []Entry) error {
	for i := range entries {
		content, err := src.Read(entries[i].Filename)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entries[i].Filename, err)
		}
		entries[i].Content = content
	}
	return nil
}

func readSum(cfg Config, src Source) (*SumFile, error) {
	data, err := src.Read(cfg.SumFile)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSumFile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sum file: %w", err)
	}
	return ParseSum(data)
}

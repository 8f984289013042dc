package migsum

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrCorruptSum означает, что sum-файл повреждён сам по себе и не может
// использоваться ни для проверки, ни для обновления. Это отдельный класс
// ошибки: испорчен артефакт, а не файл миграции.
// ErrCorruptSum means the sum file itself is damaged and cannot be used
// for verification or updates. It is a class of its own: the artifact is
// broken, not a migration file.
var ErrCorruptSum = errors.New("corrupt sum file")

// SumEntry это одна строка sum-файла: имя файла и контрольная точка
// цепочки после его свёртки. Контрольная точка зависит и от содержимого,
// и от позиции, поэтому строки нельзя переставить незаметно.
// SumEntry is one sum file line: a file name and the chain checkpoint
// after folding it. The checkpoint depends on both content and position,
// so lines cannot be swapped undetected.
type SumEntry struct {
	Filename   string
	Checkpoint Digest
}

// SumFile это разобранный артефакт целостности директории.
// Инвариант: Digest равен контрольной точке последней записи
// (или базовому дайджесту для пустого файла).
// SumFile is the parsed directory integrity artifact.
// Invariant: Digest equals the last entry's checkpoint (or the initial
// digest when empty).
type SumFile struct {
	Digest  Digest
	Entries []SumEntry
}

// NewSumFile возвращает пустой sum-файл с базовым дайджестом.
// NewSumFile returns an empty sum file with the initial digest.
func NewSumFile() *SumFile {
	return &SumFile{Digest: InitialDigest()}
}

// Encode сериализует sum-файл в байт-стабильную текстовую форму.
// Выход: первая строка — дайджест директории, далее по строке на файл
// в порядке миграций; ровно один завершающий перевод строки.
// Назначение: артефакт диффуем в VCS, изменение диффа соответствует
// ровно тем файлам, которые изменились.
// Encode serializes the sum file in a byte-stable textual form.
// Output: first line is the directory digest, then one line per file in
// migration order; exactly one trailing newline.
// Purpose: the artifact is diffed in VCS, a diff change corresponds to
// exactly the files that changed.
func (sf *SumFile) Encode() []byte {
	var b bytes.Buffer
	b.WriteString(sf.Digest.String())
	b.WriteByte('\n')
	for _, e := range sf.Entries {
		b.WriteString(e.Filename)
		b.WriteByte(' ')
		b.WriteString(e.Checkpoint.String())
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// ParseSum разбирает sum-файл и проверяет его самосогласованность.
// Вход: байты артефакта; завершающие пустые строки допустимы.
// Выход: SumFile или error (всегда обёрнут в ErrCorruptSum) при битой
// строке, нарушении порядка версий или несовпадении дайджеста заголовка
// с последней контрольной точкой.
// ParseSum parses a sum file and checks its self-consistency.
// Input: artifact bytes; trailing blank lines are permitted.
// Output: SumFile, or an error (always wrapped in ErrCorruptSum) on a
// malformed line, a version ordering violation, or a header digest that
// does not match the last checkpoint.
func ParseSum(data []byte) (*SumFile, error) {
	lines := strings.Split(string(data), "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty artifact", ErrCorruptSum)
	}

	digest, err := ParseDigest(lines[0])
	if err != nil {
		return nil, fmt.Errorf("%w: line 1: %v", ErrCorruptSum, err)
	}

	sf := &SumFile{Digest: digest}
	var prev sortKey
	for i, line := range lines[1:] {
		cut := strings.LastIndexByte(line, ' ')
		if cut <= 0 || cut == len(line)-1 {
			return nil, fmt.Errorf("%w: line %d: malformed entry", ErrCorruptSum, i+2)
		}
		filename := line[:cut]
		checkpoint, err := ParseDigest(line[cut+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptSum, i+2, err)
		}
		key, ok := parseFilename(filename)
		if !ok {
			return nil, fmt.Errorf("%w: line %d: %s is not a migration file", ErrCorruptSum, i+2, filename)
		}
		if i > 0 {
			if err := checkOrder(prev, key); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptSum, i+2, err)
			}
		}
		prev = key
		sf.Entries = append(sf.Entries, SumEntry{Filename: filename, Checkpoint: checkpoint})
	}

	if err := sf.selfCheck(); err != nil {
		return nil, err
	}
	return sf, nil
}

// selfCheck: дайджест заголовка обязан равняться последней контрольной
// точке. Строка, дописанная руками без обновления заголовка, не пройдёт.
// selfCheck: the header digest must equal the last checkpoint. A line
// appended by hand without updating the header will not pass.
func (sf *SumFile) selfCheck() error {
	want := InitialDigest()
	if n := len(sf.Entries); n > 0 {
		want = sf.Entries[n-1].Checkpoint
	}
	if sf.Digest != want {
		return fmt.Errorf("%w: directory digest does not match entries", ErrCorruptSum)
	}
	return nil
}

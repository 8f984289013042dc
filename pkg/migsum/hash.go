package migsum

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// DigestLabel это префикс текстовой записи дайджеста.
// Он фиксирует функцию (SHA-256) и шаг цепочки: смена алгоритма
// потребует нового префикса и будет видна при разборе.
// DigestLabel is the prefix of the textual digest encoding.
// It pins the function (SHA-256) and the chain step: changing the
// algorithm requires a new prefix and shows up at parse time.
const DigestLabel = "h1:"

// Digest это дайджест фиксированной длины: хеш файла или цепочки.
// Digest is a fixed-length digest: a file or chain hash.
type Digest [sha256.Size]byte

var encodedDigestLen = len(DigestLabel) + base64.StdEncoding.EncodedLen(sha256.Size)

// InitialDigest возвращает дайджест пустой последовательности.
// Выход: SHA-256 от пустого входа, база всех цепочек.
// InitialDigest returns the digest of the empty sequence.
// Output: SHA-256 of empty input, the base of every chain.
func InitialDigest() Digest {
	return sha256.Sum256(nil)
}

// LeafHash считает контент-хеш одного файла миграции.
// Вход: байты файла.
// Выход: SHA-256 содержимого, не зависящий от позиции файла.
// LeafHash computes the content hash of a single migration file.
// Input: file bytes.
// Output: SHA-256 of the contents, independent of file position.
func LeafHash(content []byte) Digest {
	return sha256.Sum256(content)
}

// Fold делает один шаг цепочки: новый дайджест из предыдущего,
// имени файла и его контент-хеша.
// Вход: prior — дайджест всех предыдущих шагов, имя файла, leaf.
// Выход: дайджест, фиксирующий и сам файл, и всю историю до него.
// Назначение: правка, перестановка или вставка любого файла меняет
// все последующие дайджесты; дописывание не трогает предыдущие.
// Fold performs one chain step: a new digest from the prior one, the
// file name and its content hash.
// Input: prior digest of all earlier steps, file name, leaf hash.
// Output: digest committing to both the file and everything before it.
// Purpose: editing, reordering or inserting any file changes every
// later digest; appending leaves earlier ones untouched.
func Fold(prior Digest, filename string, leaf Digest) Digest {
	h := sha256.New()
	h.Write(prior[:])
	fmt.Fprintf(h, "%x  %s\n", leaf[:], filename)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// FoldAll сворачивает записи по порядку начиная с базового дайджеста.
// FoldAll folds entries in order starting from the initial digest.
func FoldAll(entries []Entry) Digest {
	d := InitialDigest()
	for _, e := range entries {
		d = Fold(d, e.Filename, LeafHash(e.Content))
	}
	return d
}

// String кодирует дайджест в стабильную текстовую форму "h1:<base64>".
// String encodes the digest in the stable "h1:<base64>" textual form.
func (d Digest) String() string {
	return DigestLabel + base64.StdEncoding.EncodeToString(d[:])
}

// ParseDigest разбирает текстовую форму дайджеста.
// Выход: Digest или error при неверном префиксе, длине или base64.
// ParseDigest parses the textual digest form.
// Output: Digest, or error on a wrong prefix, length or base64.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if !strings.HasPrefix(s, DigestLabel) {
		return d, fmt.Errorf("digest %q: missing %s label", s, DigestLabel)
	}
	if len(s) != encodedDigestLen {
		return d, fmt.Errorf("digest %q: wrong length", s)
	}
	raw, err := base64.StdEncoding.DecodeString(s[len(DigestLabel):])
	if err != nil {
		return d, fmt.Errorf("digest %q: %w", s, err)
	}
	copy(d[:], raw)
	return d, nil
}

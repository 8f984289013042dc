package migsum

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAppendExtendsChain(t *testing.T) {
	first := entry("20240101120000_init.up.sql", "CREATE TABLE t;")
	second := entry("20240102090000_add.up.sql", "ALTER TABLE t ADD c;")

	one, err := Update(NewSumFile(), []Entry{first})
	require.NoError(t, err)
	two, err := Update(one, []Entry{second})
	require.NoError(t, err)

	assert.NotEqual(t, one.Digest, two.Digest)

	// строка первой миграции остаётся байт-в-байт той же
	// the first migration's line stays byte-identical
	oneLines := bytes.Split(one.Encode(), []byte("\n"))
	twoLines := bytes.Split(two.Encode(), []byte("\n"))
	assert.NotEqual(t, oneLines[0], twoLines[0])
	assert.Equal(t, oneLines[1], twoLines[1])
}

func TestUpdateRejectsOrderViolation(t *testing.T) {
	entries := entriesFixture()
	sum := sumOf(t, entries[1:])

	// токен версии сортируется до последнего записанного
	// the version token sorts before the last recorded one
	_, err := Update(sum, entries[:1])
	require.ErrorIs(t, err, ErrOrderViolation)

	// одинаковый токен версии у другой миграции
	// the same version token on a different migration
	dup := entry("20240103101500_other.up.sql", "SELECT 1;")
	_, err = Update(sum, []Entry{dup})
	require.ErrorIs(t, err, ErrOrderViolation)

	// более поздний токен версии допустим
	// a later version token is allowed
	next := entry("20240104000000_cleanup.up.sql", "DROP TABLE t;")
	_, err = Update(sum, []Entry{next})
	require.NoError(t, err)
}

func TestWriteSumIsIdempotent(t *testing.T) {
	src := newMemSource(map[string]string{
		"20240101120000_init.up.sql":      "CREATE TABLE t (id bigint);",
		"20240102090000_add_users.up.sql": "CREATE TABLE users (id bigint);",
	})

	appended, err := WriteSum(Config{}, src)
	require.NoError(t, err)
	assert.Len(t, appended, 2)

	recorded := append([]byte(nil), src.files[DefaultSumFile]...)

	appended, err = WriteSum(Config{}, src)
	require.NoError(t, err)
	assert.Empty(t, appended)
	assert.Equal(t, recorded, src.files[DefaultSumFile])
}

func TestWriteSumAppendsOnly(t *testing.T) {
	src := newMemSource(map[string]string{
		"20240101120000_init.up.sql":      "CREATE TABLE t (id bigint);",
		"20240102090000_add_users.up.sql": "CREATE TABLE users (id bigint);",
	})

	_, err := WriteSum(Config{}, src)
	require.NoError(t, err)
	before := bytes.Split(src.files[DefaultSumFile], []byte("\n"))

	src.files["20240103101500_add_index.up.sql"] = []byte("CREATE INDEX users_id ON users (id);")
	appended, err := WriteSum(Config{}, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240103101500_add_index.up.sql"}, appended)

	after := bytes.Split(src.files[DefaultSumFile], []byte("\n"))
	require.Len(t, after, len(before)+1)
	assert.NotEqual(t, before[0], after[0])
	assert.Equal(t, before[1:len(before)-1], after[1:len(before)-1])
}

func TestWriteSumRefusesDirtyDirectory(t *testing.T) {
	src := newMemSource(map[string]string{
		"20240101120000_init.up.sql": "CREATE TABLE t (id bigint);",
	})

	_, err := WriteSum(Config{}, src)
	require.NoError(t, err)
	recorded := append([]byte(nil), src.files[DefaultSumFile]...)

	src.files["20240101120000_init.up.sql"] = []byte("CREATE TABLE t (id bigint, hacked text);")
	_, err = WriteSum(Config{}, src)
	require.ErrorIs(t, err, ErrDirtyDir)
	assert.Contains(t, err.Error(), "20240101120000_init.up.sql")
	assert.Equal(t, recorded, src.files[DefaultSumFile])
}

func TestWriteSumRejectsEmptyMigration(t *testing.T) {
	src := newMemSource(map[string]string{
		"20240101120000_init.up.sql": "   \n\t\n",
	})

	_, err := WriteSum(Config{}, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
	_, exists := src.files[DefaultSumFile]
	assert.False(t, exists)
}

func TestWriteDirAndVerifyDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20240101120000_init.up.sql", "CREATE TABLE t (id bigint);")
	writeFile(t, dir, "20240101120000_init.down.sql", "DROP TABLE t;")
	writeFile(t, dir, "README.md", "not a migration")

	cfg := Config{MigrationsDir: dir}
	appended, err := WriteDir(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20240101120000_init.down.sql",
		"20240101120000_init.up.sql",
	}, appended)

	report, err := VerifyDir(cfg)
	require.NoError(t, err)
	assert.True(t, report.Clean())

	writeFile(t, dir, "20240101120000_init.up.sql", "DROP TABLE passwords;")
	report, err = VerifyDir(cfg)
	require.NoError(t, err)
	assert.Equal(t, StatusTampered, report.Status)
}

func TestWriteDirRequiresDir(t *testing.T) {
	_, err := WriteDir(Config{})
	require.Error(t, err)
	_, err = VerifyDir(Config{})
	require.Error(t, err)
}

package migsum

import (
	"os"
	"path/filepath"
)

// Source определяет операции над носителем директории миграций.
// Назначение: абстрагировать файловую систему от библиотеки и тестов.
// Source defines operations over the migration directory backend.
// Purpose: abstract the filesystem away from the library and tests.
type Source interface {
	// Names возвращает имена файлов директории в произвольном порядке.
	// Names returns directory file names in arbitrary order.
	Names() ([]string, error)
	// Read возвращает содержимое файла по имени.
	// Read returns file contents by name.
	Read(name string) ([]byte, error)
	// Write записывает файл целиком; частичных записей не бывает.
	// Write stores a file as a whole; no partial writes happen.
	Write(name string, data []byte) error
}

// DirSource реализует Source поверх директории файловой системы.
// DirSource implements Source over a filesystem directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Names() ([]string, error) {
	list, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for _, entry := range list {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func (s DirSource) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Dir, name))
}

// Write пишет во временный файл и переименовывает, чтобы наполовину
// записанный артефакт никогда не был виден под целевым именем.
// Write goes through a temp file and a rename so a half-written artifact
// is never visible under the target name.
func (s DirSource) Write(name string, data []byte) error {
	tmp := filepath.Join(s.Dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(s.Dir, name))
}

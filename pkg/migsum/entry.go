package migsum

// Entry описывает один файл миграции в директории.
// Назначение: хранить метаданные файла и байты содержимого для хеширования.
// Entry describes a single migration file in the directory.
// Purpose: hold file metadata and content bytes for hashing.
type Entry struct {
	Version   string
	Name      string
	Direction Direction
	Filename  string
	Content   []byte
}

// Direction это направление миграции.
// Direction is a migration direction.
type Direction string

const (
	// DirectionUp это миграция вверх.
	// DirectionUp is the "up" migration direction.
	DirectionUp Direction = "up"
	// DirectionDown это миграция вниз.
	// DirectionDown is the "down" migration direction.
	DirectionDown Direction = "down"
)

// Key возвращает уникальный идентификатор миграции без направления.
// Вход: структура Entry.
// Выход: строка формата "version_name".
// Назначение: связать up/down пары одной миграции.
// Key returns a unique migration identifier without direction.
// Input: Entry struct.
// Output: string in "version_name" format.
// Purpose: match the up/down pair of one migration.
func (e Entry) Key() string {
	return e.Version + "_" + e.Name
}

func (e Entry) sortKey() sortKey {
	return sortKey{version: e.Version, name: e.Name, direction: e.Direction}
}

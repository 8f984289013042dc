package migsum

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSumFile это имя sum-файла по умолчанию внутри директории миграций.
// DefaultSumFile is the default sum file name inside the migrations directory.
const DefaultSumFile = "migsum.sum"

// Config хранит настройки для работы с директорией миграций.
// Назначение: передать директорию и имя sum-файла в функции библиотеки.
// Config holds settings for working with a migrations directory.
// Purpose: pass the directory and sum file name into library functions.
type Config struct {
	MigrationsDir string
	SumFile       string
}

func (c Config) withDefaults() Config {
	if c.SumFile == "" {
		c.SumFile = DefaultSumFile
	}
	return c
}

// LoadFile читает конфигурацию проекта из YAML-файла.
// Вход: путь к файлу (обычно migsum.yaml в корне проекта).
// Выход: Config или error при IO или неверном YAML.
// LoadFile reads project configuration from a YAML file.
// Input: file path (usually migsum.yaml at the project root).
// Output: Config, or error on IO or invalid YAML.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var raw struct {
		Dir string `yaml:"dir"`
		Sum string `yaml:"sum"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return Config{MigrationsDir: raw.Dir, SumFile: raw.Sum}, nil
}

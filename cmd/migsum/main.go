package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"migsum/pkg/migsum"
)

// version содержит текущую версию CLI.
// Назначение: показывать версию в команде version.
// version holds the current CLI version.
// Purpose: print version in the version command.
var version = "0.1.0"

// main парсит CLI-флаги и запускает нужную команду.
// Вход: флаги командной строки.
// Выход: код завершения процесса и сообщения stdout/stderr.
// Назначение: тонкий CLI над библиотекой целостности миграций.
// main parses CLI flags and runs a selected command.
// Input: command-line flags.
// Output: process exit code and stdout/stderr messages.
// Purpose: a thin CLI over the migration integrity library.
func main() {
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		handleSubcommand(os.Args[1:])
		return
	}

	handleLegacyFlags()
}

// handleSubcommand обрабатывает команды вида "migsum <command>".
// Вход: args (аргументы без имени бинарника).
// Выход: печатает результат или завершает процесс.
// Назначение: поддержать удобный синтаксис без флага -command.
// handleSubcommand handles "migsum <command>" style.
// Input: args (arguments without binary name).
// Output: prints result or exits.
// Purpose: support command-first syntax.
func handleSubcommand(args []string) {
	switch args[0] {
	case "help", "-h", "--help":
		printHelp()
		return
	case "version", "-v", "--version":
		fmt.Println(version)
		return
	}

	fs := pflag.NewFlagSet("migsum", pflag.ExitOnError)
	cfg := configFlags(fs)

	switch args[0] {
	case "hash":
		_ = fs.Parse(args[1:])
		runHash(cfg)
	case "verify":
		_ = fs.Parse(args[1:])
		runVerify(cfg)
	case "status":
		_ = fs.Parse(args[1:])
		runStatus(cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printHelp()
		os.Exit(2)
	}
}

// handleLegacyFlags обрабатывает старый формат с флагом -command.
// Вход: флаги из os.Args.
// Выход: печатает результат или завершает процесс.
// Назначение: сохранить обратную совместимость.
// handleLegacyFlags handles legacy -command style flags.
// Input: flags from os.Args.
// Output: prints result or exits.
// Purpose: keep backward compatibility.
func handleLegacyFlags() {
	command := pflag.String("command", "verify", "command to run: hash, verify, status")
	cfg := configFlags(pflag.CommandLine)
	pflag.Parse()

	switch *command {
	case "hash":
		runHash(cfg)
	case "verify":
		runVerify(cfg)
	case "status":
		runStatus(cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", *command)
		os.Exit(2)
	}
}

// configFlags регистрирует флаги конфигурации и возвращает структуру.
// Вход: FlagSet для регистрации флагов.
// Выход: указатель на config.
// Назначение: централизовать объявление флагов.
// configFlags registers configuration flags and returns the config struct.
// Input: FlagSet to register flags on.
// Output: pointer to config.
// Purpose: centralize flag definitions.
func configFlags(fs *pflag.FlagSet) *config {
	cfg := &config{}
	fs.StringVarP(&cfg.migrationsDir, "dir", "d", "", "directory with migration files")
	fs.StringVarP(&cfg.sumFile, "sum", "s", "", "sum file name inside the migrations directory")
	return cfg
}

// config хранит значения флагов до финальной сборки.
// Назначение: промежуточная структура для CLI.
// config holds flag values before final resolution.
// Purpose: intermediate structure for CLI.
type config struct {
	migrationsDir string
	sumFile       string
}

// buildConfig собирает конфигурацию из env, флагов и migsum.yaml.
// Вход: cfg из флагов.
// Выход: итоговый migsum.Config.
// Назначение: применить приоритет env > флаги > файл > умолчания.
// buildConfig builds configuration from env, flags and migsum.yaml.
// Input: cfg from flags.
// Output: resolved migsum.Config.
// Purpose: apply env > flags > file > defaults priority.
func buildConfig(cfg *config) migsum.Config {
	fileCfg := migsum.Config{}
	if _, err := os.Stat("migsum.yaml"); err == nil {
		loaded, err := migsum.LoadFile("migsum.yaml")
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fileCfg = loaded
	}

	dir := pickEnv("MIGSUM_MIGRATIONS_DIR", cfg.migrationsDir)
	if dir == "" {
		dir = fileCfg.MigrationsDir
	}
	if dir == "" {
		dir = "./migrations"
	}

	sum := pickEnv("MIGSUM_SUM_FILE", cfg.sumFile)
	if sum == "" {
		sum = fileCfg.SumFile
	}

	return migsum.Config{MigrationsDir: dir, SumFile: sum}
}

// pickEnv возвращает значение переменной окружения или запасное.
// pickEnv returns the env variable value or the fallback.
func pickEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// runHash записывает или дописывает sum-файл директории.
// Вход: cfg с флагами/окружением.
// Выход: имена добавленных миграций или завершение при ошибке.
// Назначение: выполнить команду hash.
// runHash writes or extends the directory sum file.
// Input: cfg with flags/env.
// Output: appended migration names, or exits on error.
// Purpose: execute the hash command.
func runHash(cfg *config) {
	appended, err := migsum.WriteDir(buildConfig(cfg))
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	if len(appended) == 0 {
		fmt.Println("no changes")
		return
	}
	for _, name := range appended {
		fmt.Println(name)
	}
}

// runVerify сверяет директорию с sum-файлом и гейтит CI.
// Вход: cfg с флагами/окружением.
// Выход: расхождения на stdout; код 1 при любом ошибочном статусе.
// Назначение: выполнить команду verify.
// runVerify checks the directory against the sum file and gates CI.
// Input: cfg with flags/env.
// Output: discrepancies on stdout; exit 1 on any error status.
// Purpose: execute the verify command.
func runVerify(cfg *config) {
	report, err := migsum.VerifyDir(buildConfig(cfg))
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	for _, finding := range report.Findings {
		fmt.Println(finding.String())
	}

	switch report.Status {
	case migsum.StatusConsistent:
		fmt.Println("ok")
	case migsum.StatusPending:
		fmt.Println("run \"migsum hash\" to record the new migrations")
	default:
		os.Exit(1)
	}
}

// runStatus печатает сводку по директории без гейта.
// Вход: cfg с флагами/окружением.
// Выход: статус и расхождения; код 0 кроме ошибок IO/артефакта.
// Назначение: выполнить команду status.
// runStatus prints a directory summary without gating.
// Input: cfg with flags/env.
// Output: status and discrepancies; exit 0 except IO/artifact errors.
// Purpose: execute the status command.
func runStatus(cfg *config) {
	report, err := migsum.VerifyDir(buildConfig(cfg))
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Printf("status=%s\n", report.Status)
	for _, finding := range report.Findings {
		fmt.Printf("  %s\n", finding.String())
	}
}

// printHelp печатает справку по командам и флагам.
// printHelp prints command and flag usage.
func printHelp() {
	fmt.Print(`migsum - migration directory integrity tool

Usage:
  migsum <command> [flags]

Commands:
  hash     write or extend the sum file after adding migrations
  verify   check the directory against the sum file (CI gate)
  status   print the directory status without failing
  version  print version
  help     print this help

Flags:
  -d, --dir string   directory with migration files (default "./migrations")
  -s, --sum string   sum file name inside the migrations directory (default "` + migsum.DefaultSumFile + `")

Environment:
  MIGSUM_MIGRATIONS_DIR  overrides --dir
  MIGSUM_SUM_FILE        overrides --sum

A migsum.yaml file in the working directory may set defaults:
  dir: db/migrations
  sum: migsum.sum
`)
}

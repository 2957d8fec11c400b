package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "importmock"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	mocksFlagName       = "mocks"
	traceFlagName       = "trace"
	verboseFlagName     = "verbose"
	runParallelFlagName = "parallel"
	parentFlagName      = "parent"
	printSourceFlagName = "print-source"
	moduleDirFlagName   = "module-dir"

	mocksConfigKey         = "mocks.file"
	traceConfigKey         = "trace"
	runParallelConfigKey   = "run.parallel"
	moduleDirsConfigKey    = "host.module_dirs"
	defaultFormatConfigKey = "host.default_format"

	defaultMocksFile    = "importmock.mocks.yaml"
	defaultTrace        = false
	defaultRunParallel  = 4
	defaultModuleDir    = "node_modules"
	defaultModuleFormat = "module"
	defaultPrintSource  = false

	envPrefix = "IMPORTMOCK"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".importmock.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(mocksConfigKey, defaultMocksFile)
	viper.SetDefault(traceConfigKey, defaultTrace)
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(moduleDirsConfigKey, []string{defaultModuleDir})
	viper.SetDefault(defaultFormatConfigKey, defaultModuleFormat)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// parseSlogLevel accepts slog level names, with offsets such as "info+2",
// the "warning" alias, and bare numbers. Anything else yields fallback.
func parseSlogLevel(value string, fallback slog.Level) slog.Level {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	if strings.EqualFold(value, "warning") {
		return slog.LevelWarn
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err == nil {
		return level
	}

	if n, err := strconv.Atoi(value); err == nil {
		return slog.Level(n)
	}

	return fallback
}

type logSettings struct {
	file       string
	level      slog.Level
	maxSize    int
	maxBackups int
	maxAge     int
	compress   bool
}

// loadLogSettings reads the log.* keys. verbose forces debug output.
func loadLogSettings(verbose bool) logSettings {
	settings := logSettings{
		file:       strings.TrimSpace(viper.GetString(logFilenameKey)),
		level:      parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo),
		maxSize:    viper.GetInt(logMaxSizeKey),
		maxBackups: viper.GetInt(logMaxBackupsKey),
		maxAge:     viper.GetInt(logMaxAgeKey),
		compress:   viper.GetBool(logCompressKey),
	}

	if settings.file == "" {
		settings.file = defaultLogFilename
	}

	if verbose {
		settings.level = slog.LevelDebug
	}

	return settings
}

var logFile *lumberjack.Logger

// configureLogger points the default slog logger at the rotating log file.
// Every record carries the subcommand and the mock manifest in use, so one
// log file can be shared by several invocations.
func configureLogger(command string, verbose bool) {
	settings := loadLogSettings(verbose)

	if logFile != nil {
		_ = logFile.Close()
	}

	logFile = &lumberjack.Logger{
		Filename:   settings.file,
		MaxSize:    settings.maxSize,
		MaxBackups: settings.maxBackups,
		MaxAge:     settings.maxAge,
		Compress:   settings.compress,
	}

	handler := slog.NewTextHandler(logFile, &slog.HandlerOptions{
		AddSource:   true,
		Level:       settings.level,
		ReplaceAttr: shortSource,
	})

	globalLogger = slog.New(handler).With(
		"command", command,
		"mocks", viper.GetString(mocksConfigKey),
	)
	slog.SetDefault(globalLogger)
}

// shortSource trims record sources to the file's base name.
func shortSource(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key != slog.SourceKey {
		return attr
	}

	if src, ok := attr.Value.Any().(*slog.Source); ok {
		src.File = filepath.Base(src.File)
	}

	return attr
}

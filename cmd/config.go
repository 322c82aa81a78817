package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lakshaymaurya-felt/mechanic/internal/cleanup"
	"github.com/lakshaymaurya-felt/mechanic/internal/config"
)

const (
	configBaseName = "mech"
	configFileName = configBaseName + ".yaml"
	configDirName  = "mechanic"

	envPrefix = "MECH"

	scanParallelKey = "scan.parallel"
	scanMaxDepthKey = "scan.max_depth"

	defaultScanParallel = cleanup.DefaultParallel
	defaultScanMaxDepth = cleanup.DefaultMaxDepth

	locTempKey          = "locations.temp"
	locLocalAppDataKey  = "locations.local_app_data"
	locWindowsDirKey    = "locations.windows_dir"
	locProgramDataKey   = "locations.program_data"
	locSystemDriveKey   = "locations.system_drive"
	locStartupFolderKey = "locations.startup_folder"
	locRunKeyKey        = "locations.run_key"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = configBaseName + ".log"
	defaultLogLevel      = "info"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var (
	globalLogger  *slog.Logger
	globalLogFile *lumberjack.Logger
)

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(scanParallelKey, defaultScanParallel)
	viper.SetDefault(scanMaxDepthKey, defaultScanMaxDepth)

	// Empty location overrides keep the environment-derived defaults.
	for _, k := range []string{
		locTempKey, locLocalAppDataKey, locWindowsDirKey, locProgramDataKey,
		locSystemDriveKey, locStartupFolderKey, locRunKeyKey,
	} {
		viper.SetDefault(k, "")
	}

	viper.SetDefault(logFilenameKey, defaultLogPath())
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// configDir is <UserConfigDir>/mechanic, or "" when the OS reports none.
func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName)
}

// defaultLogPath keeps the log out of every directory the cleaner scans.
func defaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return defaultLogFilename
	}
	return filepath.Join(dir, configDirName, defaultLogFilename)
}

// readConfig loads path, or mech.yaml from the config dir or the working
// directory when path is empty. A missing default file is not an error.
func readConfig(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
		return viper.ReadInConfig()
	}

	if dir := configDir(); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels work too (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger installs the global slog logger writing to a rotating file.
//
// It logs at the configured level; with debug set it logs at Debug and copies
// every record to stderr.
func configureLogger(debug bool, stderr io.Writer) {
	logPath := strings.TrimSpace(viper.GetString(logFilenameKey))
	if logPath == "" {
		logPath = defaultLogFilename
	}

	level := parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	if debug {
		level = slog.LevelDebug
	}

	closeLogger()
	globalLogFile = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	var out io.Writer = globalLogFile
	if debug && stderr != nil {
		out = io.MultiWriter(out, stderr)
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		AddSource: debug,
		Level:     level,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// closeLogger releases the log file opened by configureLogger.
func closeLogger() {
	if globalLogFile != nil {
		_ = globalLogFile.Close() // best-effort
		globalLogFile = nil
	}
}

// locations resolves the cleaner's roots from the environment, with any
// locations.* keys from config or MECH_LOCATIONS_* variables applied on top.
func locations() config.Locations {
	return config.DefaultLocations().Override(config.Locations{
		Temp:          viper.GetString(locTempKey),
		LocalAppData:  viper.GetString(locLocalAppDataKey),
		WindowsDir:    viper.GetString(locWindowsDirKey),
		ProgramData:   viper.GetString(locProgramDataKey),
		SystemDrive:   viper.GetString(locSystemDriveKey),
		StartupFolder: viper.GetString(locStartupFolderKey),
		RunKey:        viper.GetString(locRunKeyKey),
	})
}

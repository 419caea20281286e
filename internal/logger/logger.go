package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logger. It stays nil until Init succeeds and
// every helper below tolerates that.
var Logger *log.Logger

const (
	logDirName   = "logs"
	logFileName  = "ductiva.log"
	maxSizeMB    = 10
	maxBackups   = 3
	maxAgeDays   = 28
	logPrefix    = "ductiva"
	logDirPerm   = 0755
	debugEnvName = "DUCTIVA_DEBUG"
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
}

// Init points the logger at <ConfigDir>/logs/ductiva.log. In debug mode the
// level drops to debug and output is mirrored to stderr.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, logDirName)
	if err := os.MkdirAll(logDir, logDirPerm); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
		out = io.MultiWriter(os.Stderr, out)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          logPrefix,
	})
	return nil
}

// DebugFromEnv reports whether DUCTIVA_DEBUG asks for debug logging.
func DebugFromEnv() bool {
	switch os.Getenv(debugEnvName) {
	case "1", "true", "TRUE", "yes":
		return true
	}
	return false
}

// Writer adapts the logger for code that expects an io.Writer, such as HTTP
// access logs. Lines are written at info level.
func Writer() io.Writer {
	if Logger == nil {
		return io.Discard
	}
	return Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}).Writer()
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs at fatal level and exits with status 1.
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}

package config

import "strings"

type LogLevel string

const (
	LogLevelDebug   LogLevel = "DEBUG"
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelFatal   LogLevel = "FATAL"
)

func (l LogLevel) String() string {
	return string(l)
}

type LogConfig struct {
	Level LogLevel `mapstructure:"dataworks_log_level"` // log level - debug, info, warn, error, fatal
}

// LevelOrDefault normalizes the configured level, falling back to info
func (c LogConfig) LevelOrDefault() LogLevel {
	level := LogLevel(strings.ToUpper(strings.TrimSpace(string(c.Level))))
	switch level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelFatal:
		return level
	case "WARNING":
		return LogLevelWarning
	default:
		return LogLevelInfo
	}
}

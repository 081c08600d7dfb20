package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/odpf/salt/log"
	"github.com/sirupsen/logrus"

	"github.com/ethan-root/Dataworks/config"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(l config.LogLevel) level {
	switch l {
	case config.LogLevelDebug:
		return levelDebug
	case config.LogLevelWarning:
		return levelWarn
	case config.LogLevelError, config.LogLevelFatal:
		return levelError
	default:
		return levelInfo
	}
}

type defaultLogger struct {
	writer   io.Writer
	exitFunc func(int)
	level    level
}

func (d defaultLogger) Debug(msg string, args ...interface{}) {
	if d.level > levelDebug {
		return
	}
	c := color.New(color.FgWhite)
	d.write(c, msg, args...)
}

func (d defaultLogger) Info(msg string, args ...interface{}) {
	if d.level > levelInfo {
		return
	}
	c := color.New(color.FgWhite)
	d.write(c, msg, args...)
}

func (d defaultLogger) Warn(msg string, args ...interface{}) {
	if d.level > levelWarn {
		return
	}
	c := color.New(color.FgYellow)
	d.write(c, msg, args...)
}

func (d defaultLogger) Error(msg string, args ...interface{}) {
	c := color.New(color.FgRed)
	d.write(c, msg, args...)
}

func (d defaultLogger) Fatal(msg string, args ...interface{}) {
	c := color.New(color.FgRed)
	d.write(c, msg, args...)
	d.exitFunc(1)
}

func (defaultLogger) Level() string {
	// this is to adhere to the logger interface
	return ""
}

func (d defaultLogger) Writer() io.Writer {
	return d.writer
}

func (d defaultLogger) write(c *color.Color, msg string, args ...interface{}) {
	plainMessage := msg
	if len(args) > 0 {
		plainMessage = fmt.Sprintf(msg, args...)
	}
	c.Fprintln(d.writer, plainMessage)
}

type plainFormatter int

func (*plainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	prefix := strings.ToUpper(entry.Level.String())
	if len(entry.Data) > 0 {
		var data string
		for key, val := range entry.Data {
			data += fmt.Sprintf("%s: %v ", key, val)
		}
		return []byte(fmt.Sprintf("%s [%s] %s %s\n", entry.Time.Format("2006-01-02 15:04:05"), prefix, entry.Message, data)), nil
	}
	return []byte(fmt.Sprintf("%s [%s] %s\n", entry.Time.Format("2006-01-02 15:04:05"), prefix, entry.Message)), nil
}

// plainLogger formats printf style messages before handing them to logrus, whose
// salt wrapper treats trailing args as key value pairs
type plainLogger struct {
	log.Logger
}

func (p plainLogger) Debug(msg string, args ...interface{}) {
	p.Logger.Debug(format(msg, args...))
}

func (p plainLogger) Info(msg string, args ...interface{}) {
	p.Logger.Info(format(msg, args...))
}

func (p plainLogger) Warn(msg string, args ...interface{}) {
	p.Logger.Warn(format(msg, args...))
}

func (p plainLogger) Error(msg string, args ...interface{}) {
	p.Logger.Error(format(msg, args...))
}

func (p plainLogger) Fatal(msg string, args ...interface{}) {
	p.Logger.Fatal(format(msg, args...))
}

func format(msg string, args ...interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// NewPlainLogger initializes a timestamped logger without colors, used when stdout is
// not a terminal
func NewPlainLogger(writer io.Writer, logConfig config.LogConfig) log.Logger {
	return plainLogger{
		Logger: log.NewLogrus(
			log.LogrusWithLevel(strings.ToLower(logConfig.LevelOrDefault().String())),
			log.LogrusWithWriter(writer),
			log.LogrusWithFormatter(new(plainFormatter)),
		),
	}
}

// NewColorLogger initializes the colored terminal logger
func NewColorLogger(writer io.Writer, logConfig config.LogConfig) log.Logger {
	return &defaultLogger{
		writer:   writer,
		exitFunc: os.Exit,
		level:    parseLevel(logConfig.LevelOrDefault()),
	}
}

// NewClientLogger initializes client logger based on log configuration, colors are only
// used on a terminal
func NewClientLogger() log.Logger {
	logConfig := config.LoadLogConfig()
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return NewColorLogger(os.Stdout, logConfig)
	}
	return NewPlainLogger(os.Stdout, logConfig)
}

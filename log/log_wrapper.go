package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

var (
	mu         sync.RWMutex
	stdLogger  log.Logger
	fileLogger log.Logger
	option     = level.AllowInfo()
)

func init() {
	initStdLogger()
}

// default std logger is enabled
func EnableStdLogger(enable bool) {
	mu.Lock()
	defer mu.Unlock()

	if enable && stdLogger == nil {
		initStdLogger()
	}
	if !enable {
		stdLogger = nil
	}
}

// default file logger is disabled
func EnableFileLogger(enable bool, savePath string) error {
	mu.Lock()
	defer mu.Unlock()

	if !enable {
		fileLogger = nil
		return nil
	}
	err := initFileLogger(savePath)
	if err != nil {
		fileLogger = nil
	}
	return err
}

func Debug(keyvals ...interface{}) {
	logAt(level.Debug, keyvals)
}

func Info(keyvals ...interface{}) {
	logAt(level.Info, keyvals)
}

func Warn(keyvals ...interface{}) {
	logAt(level.Warn, keyvals)
}

func Error(keyvals ...interface{}) {
	logAt(level.Error, keyvals)
}

func SetToDebug() {
	setOption(level.AllowDebug())
}

func SetToInfo() {
	setOption(level.AllowInfo())
}

func SetToWarn() {
	setOption(level.AllowWarn())
}

func SetToError() {
	setOption(level.AllowError())
}

// SetLevel sets the level by name: debug, info, warn or error.
func SetLevel(name string) error {
	switch name {
	case "debug":
		SetToDebug()
	case "info", "":
		SetToInfo()
	case "warn":
		SetToWarn()
	case "error":
		SetToError()
	default:
		return fmt.Errorf("unknown log level %q", name)
	}
	return nil
}

// Logger returns a go-kit logger writing through the package loggers, for
// components that take a log.Logger.
func Logger() log.Logger {
	return log.LoggerFunc(func(keyvals ...interface{}) error {
		mu.RLock()
		defer mu.RUnlock()

		for _, l := range []log.Logger{stdLogger, fileLogger} {
			if l != nil {
				level.NewFilter(l, option).Log(keyvals...)
			}
		}
		return nil
	})
}

func logAt(lv func(log.Logger) log.Logger, keyvals []interface{}) {
	mu.RLock()
	defer mu.RUnlock()

	if stdLogger != nil {
		lv(level.NewFilter(stdLogger, option)).Log(keyvals...)
	}
	if fileLogger != nil {
		lv(level.NewFilter(fileLogger, option)).Log(keyvals...)
	}
}

func setOption(o level.Option) {
	mu.Lock()
	defer mu.Unlock()
	option = o
}

func initStdLogger() {
	stdLogger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	stdLogger = log.With(stdLogger, "ts", log.DefaultTimestampUTC, "caller", log.Caller(4))
}

func initFileLogger(savePath string) error {
	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return err
	}

	file, err := os.OpenFile(savePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	fileLogger = log.NewLogfmtLogger(log.NewSyncWriter(io.Writer(file)))
	fileLogger = log.With(fileLogger, "ts", log.DefaultTimestampUTC, "caller", log.Caller(4))
	return nil
}

package logging

import (
	"io"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	once   sync.Once
	logger *log.Logger
)

func Logger() *log.Logger {
	once.Do(func() {
		logger = log.New(os.Stdout, "", log.LstdFlags)
	})
	return logger
}

// Configure tees the logger into a rotating file sink. The level is
// advisory; the panel logs at a single level.
func Configure(level, filePath string) (func(), error) {
	if filePath == "" {
		return func() {}, nil
	}

	sink := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}

	mw := io.MultiWriter(os.Stdout, sink)
	Logger().SetOutput(mw)

	return func() { _ = sink.Close() }, nil
}

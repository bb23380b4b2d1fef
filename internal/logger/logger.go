package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log - общий логгер сервиса. До вызова Init равен nil.
var Log *logrus.Logger

// Init настраивает логгер: уровень и формат ("json" для production, "text" для разработки).
func Init(level, format string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if format == "text" {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// Discard отключает вывод (для тестов и CLI в тихом режиме).
func Discard() {
	Log = logrus.New()
	Log.SetOutput(io.Discard)
}

// Entry возвращает запись с полями. Безопасен до Init.
func Entry(fields logrus.Fields) *logrus.Entry {
	if Log == nil {
		return logrus.WithFields(fields)
	}
	return Log.WithFields(fields)
}

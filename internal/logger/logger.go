package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Init настраивает структурированный JSON-логгер процесса.
//
// level приходит из конфигурации; нераспознанный уровень тихо
// деградирует до info, логгер не причина падать на старте.
func Init(service, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	log.WithField("service", service).Debug("logger initialized")
	return log
}

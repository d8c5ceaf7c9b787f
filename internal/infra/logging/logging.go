package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Configure switches between JSON output for production and text output with
// caller reporting for development. An explicit level overrides the default.
func Configure(production bool, level string) {
	Log.Out = os.Stderr
	if production {
		Log.SetLevel(logrus.InfoLevel)
		Log.SetReportCaller(false)
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		Log.SetLevel(logrus.DebugLevel)
		Log.SetReportCaller(true)
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			Log.WithField("level", level).Warn("invalid LOG_LEVEL, keeping default")
			return
		}
		Log.SetLevel(lvl)
	}
}

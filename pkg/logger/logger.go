// Package logger wraps logrus with context-aware helpers used across the service.
package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Devesh36/CodeBits/pkg/ctxutil"
	"github.com/sirupsen/logrus"
)

// InitLogging configures the logger. It sets the log level from the LOG_LEVEL environment variable if present.
func InitLogging() {
	logrus.Info("....Configuring Logger....")
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}
	setLogLevel(logLevel)
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func setLogLevel(level string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logrus.Infof("NO/Invalid LOG_LEVEL is provided, defaulting logging level to DEBUG, provided loggingLevel=[%s]", level)
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(lvl)
	logrus.Infof("Setting logging level to %s", level)
}

// Sprintf is fmt.Sprintf; kept here so callers building log fields need one import.
func Sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// With returns an entry carrying the given fields plus request-scoped identifiers.
func With(ctx context.Context, fields map[string]any) *logrus.Entry {
	f := logrus.Fields{}
	for k, v := range fields {
		f[k] = v
	}
	return entry(ctx).WithFields(f)
}

// WithField is With for a single key.
func WithField(ctx context.Context, key string, value any) *logrus.Entry {
	return entry(ctx).WithField(key, value)
}

func entry(ctx context.Context) *logrus.Entry {
	f := logrus.Fields{}
	if id := ctxutil.RequestID(ctx); id != "" {
		f["request_id"] = id
	}
	if id := ctxutil.ClientID(ctx); id != "" {
		f["client_id"] = id
	}
	if id := ctxutil.ActorID(ctx); id != "" {
		f["actor_id"] = id
	}
	return logrus.WithFields(f)
}

func Info(ctx context.Context, msg string, args ...any) {
	entry(ctx).Infof(msg, args...)
}

func Debug(ctx context.Context, msg string, args ...any) {
	entry(ctx).Debugf(msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	entry(ctx).Errorf(msg, args...)
}

func Trace(ctx context.Context, msg string, args ...any) {
	entry(ctx).Tracef(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	entry(ctx).Warnf(msg, args...)
}

func Fatal(ctx context.Context, msg string, args ...any) {
	entry(ctx).Fatalf(msg, args...)
}

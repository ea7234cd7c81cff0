// Copyright © 2025 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"io"
	"math"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jeamick/raiden/pkg/confutil"
	"github.com/jeamick/raiden/pkg/harnessconf"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	rootLogger = logrus.NewEntry(logrus.StandardLogger())

	// L accesses the current logger from the context
	L = loggerFromContext

	initAtLeastOnce atomic.Bool
)

const maxFieldLen = 61

type ctxLogKey struct{}

func InitConfig(conf *harnessconf.LogConfig) {
	initAtLeastOnce.Store(true) // must store before SetLevel

	SetLevel(confutil.StringNotEmpty(conf.Level, *harnessconf.LogDefaults.Level))
	if w := outputFor(conf); w != nil {
		logrus.SetOutput(w)
	}
	logrus.SetFormatter(formatterFor(conf))
}

func outputFor(conf *harnessconf.LogConfig) io.Writer {
	switch confutil.StringNotEmpty(conf.Output, *harnessconf.LogDefaults.Output) {
	case "file":
		defs := &harnessconf.LogDefaults.File
		filename := confutil.StringNotEmpty(conf.File.Filename, *defs.Filename)
		rootLogger.Infof("Logs diverted to %s", filename)
		maxSizeBytes := confutil.ByteSize(conf.File.MaxSize, 0, *defs.MaxSize)
		maxAge := confutil.DurationMin(conf.File.MaxAge, 0, *defs.MaxAge)
		return &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    int(math.Ceil(float64(maxSizeBytes) / 1024 / 1024)), // megabytes, rounded up
			MaxBackups: confutil.IntMin(conf.File.MaxBackups, 0, *defs.MaxBackups),
			MaxAge:     int(math.Ceil(float64(maxAge) / float64(24*time.Hour))), // days, rounded up
			Compress:   confutil.Bool(conf.File.Compress, *defs.Compress),
		}
	case "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	default:
		return nil
	}
}

type utcFormat struct {
	f logrus.Formatter
}

func (utc *utcFormat) Format(e *logrus.Entry) ([]byte, error) {
	e.Time = e.Time.UTC()
	return utc.f.Format(e)
}

func formatterFor(conf *harnessconf.LogConfig) (formatter logrus.Formatter) {
	defs := harnessconf.LogDefaults
	disableColor := confutil.Bool(conf.DisableColor, *defs.DisableColor)
	forceColor := confutil.Bool(conf.ForceColor, *defs.ForceColor)
	timeFormat := confutil.StringNotEmpty(conf.TimeFormat, *defs.TimeFormat)

	reportCaller := false
	switch confutil.StringNotEmpty(conf.Format, *defs.Format) {
	case "json":
		formatter = &logrus.JSONFormatter{
			TimestampFormat: timeFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  confutil.StringNotEmpty(conf.JSON.TimestampField, *defs.JSON.TimestampField),
				logrus.FieldKeyLevel: confutil.StringNotEmpty(conf.JSON.LevelField, *defs.JSON.LevelField),
				logrus.FieldKeyMsg:   confutil.StringNotEmpty(conf.JSON.MessageField, *defs.JSON.MessageField),
				logrus.FieldKeyFunc:  confutil.StringNotEmpty(conf.JSON.FuncField, *defs.JSON.FuncField),
				logrus.FieldKeyFile:  confutil.StringNotEmpty(conf.JSON.FileField, *defs.JSON.FileField),
			},
		}
	case "detailed":
		reportCaller = true
		formatter = &logrus.TextFormatter{
			DisableColors:   disableColor,
			ForceColors:     forceColor,
			TimestampFormat: timeFormat,
			FullTimestamp:   true,
		}
	default:
		formatter = &prefixed.TextFormatter{
			DisableColors:   disableColor,
			ForceColors:     forceColor,
			TimestampFormat: timeFormat,
			ForceFormatting: true,
			FullTimestamp:   true,
		}
	}
	logrus.SetReportCaller(reportCaller)
	if confutil.Bool(conf.UTC, *defs.UTC) {
		formatter = &utcFormat{f: formatter}
	}
	return formatter
}

func IsDebugEnabled() bool {
	return logrus.IsLevelEnabled(logrus.DebugLevel)
}

// EnsureInit applies the default config if nothing has initialized logging yet,
// which is the normal case in unit tests.
func EnsureInit() {
	if !initAtLeastOnce.Load() {
		InitConfig(&harnessconf.LogConfig{})
	}
}

// WithLogger adds the specified logger to the context
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	EnsureInit()
	return context.WithValue(ctx, ctxLogKey{}, logger)
}

// WithLogField adds the specified field to the logger in the context
func WithLogField(ctx context.Context, key, value string) context.Context {
	if len(value) > maxFieldLen {
		value = value[0:maxFieldLen] + "..."
	}
	return WithLogger(ctx, loggerFromContext(ctx).WithField(key, value))
}

func loggerFromContext(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(ctxLogKey{})
	if logger == nil {
		return rootLogger
	}
	return logger.(*logrus.Entry)
}

func GetLevel() string {
	switch logrus.GetLevel() {
	case logrus.ErrorLevel:
		return "error"
	case logrus.WarnLevel:
		return "warn"
	case logrus.DebugLevel:
		return "debug"
	case logrus.TraceLevel:
		return "trace"
	default:
		return "info"
	}
}

func SetLevel(level string) {
	var l logrus.Level
	switch strings.ToLower(level) {
	case "error":
		l = logrus.ErrorLevel
	case "warn", "warning":
		l = logrus.WarnLevel
	case "debug":
		l = logrus.DebugLevel
	case "trace":
		l = logrus.TraceLevel
	default:
		l = logrus.InfoLevel
	}
	logrus.SetLevel(l)
}

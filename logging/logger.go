/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type Logger = logrus.Logger

const defaultTimestampFormat = "2006-01-02 15:04:05.000"

var (
	mu            sync.RWMutex
	registry      = map[string]*logrus.Logger{}
	level         = ParseLevel(EnvDefaultString("LOG_LEVEL", "info"))
	consoleFormat = EnvDefaultString("CONSOLE_LOG_FORMAT", "text")
	output        io.Writer = os.Stdout
)

// NewLogger returns the logger registered under name, creating it on first use.
func NewLogger(name string) *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := registry[name]; ok {
		return l
	}
	l := logrus.New()
	l.SetOutput(output)
	l.SetLevel(level)
	l.SetReportCaller(true)
	l.SetFormatter(newFormatter(name, consoleFormat))
	if fileLog != nil {
		addFileHook(l, name, fileLog)
	}
	registry[name] = l
	return l
}

func newFormatter(name, format string) logrus.Formatter {
	if format == "json" {
		return &JSONFormatter{LoggerName: name, TimestampFormat: defaultTimestampFormat}
	}
	return &TextFormatter{LoggerName: name, TimestampFormat: defaultTimestampFormat, NameWidth: 10}
}

// ConfigureFormat switches every registered logger to "text" or "json".
func ConfigureFormat(format string) {
	f := "text"
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		f = "json"
	}
	mu.Lock()
	defer mu.Unlock()
	consoleFormat = f
	for name, l := range registry {
		l.SetFormatter(newFormatter(name, f))
	}
}

// ConfigureOutput redirects every registered logger, and those created later.
func ConfigureOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	for _, l := range registry {
		l.SetOutput(w)
	}
}

// SetLevel applies lvl to every registered logger.
func SetLevel(lvl string) {
	parsed := ParseLevel(lvl)
	mu.Lock()
	defer mu.Unlock()
	level = parsed
	for _, l := range registry {
		l.SetLevel(parsed)
	}
}

// SetLoggerLevel changes one logger; it reports false for unknown names.
func SetLoggerLevel(name, lvl string) bool {
	mu.RLock()
	l, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return false
	}
	l.SetLevel(ParseLevel(lvl))
	return true
}

func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

func EnvDefaultString(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	return def
}

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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const fileDateLayout = "2006-01-02"

type fileLogConfig struct {
	dir        string
	maxAgeDays int
	format     string
}

// fileLog is nil while file logging is off.
var fileLog *fileLogConfig

func init() {
	if EnvDefaultBool("FILE_LOG_ENABLED", false) {
		fileLog = &fileLogConfig{
			dir:        EnvDefaultString("FILE_LOG_DIR", "logs"),
			maxAgeDays: 0,
			format:     EnvDefaultString("FILE_LOG_FORMAT", "text"),
		}
	}
}

// ConfigureFileLog writes every logger, registered or created later, to
// dir/<date>/<level>.log as well. Day directories older than maxAgeDays
// are removed when the day rolls over; 0 keeps them all. Calling it again
// replaces the previous file output.
func ConfigureFileLog(dir, format string, maxAgeDays int) error {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	fileLog = &fileLogConfig{dir: dir, maxAgeDays: maxAgeDays, format: format}
	for name, l := range registry {
		addFileHook(l, name, fileLog)
	}
	return nil
}

// DisableFileLog stops file output for every logger and closes the files.
func DisableFileLog() {
	mu.Lock()
	defer mu.Unlock()
	fileLog = nil
	for _, l := range registry {
		removeFileHook(l)
	}
}

// removeFileHook detaches and closes the file hook of l, keeping other hooks.
func removeFileHook(l *logrus.Logger) {
	kept := make(logrus.LevelHooks)
	var closed []*levelWriterHook
	for level, hooks := range l.Hooks {
		for _, h := range hooks {
			fh, ok := h.(*levelWriterHook)
			if !ok {
				kept[level] = append(kept[level], h)
				continue
			}
			if !slices.Contains(closed, fh) {
				closed = append(closed, fh)
			}
		}
	}
	l.ReplaceHooks(kept)
	for _, fh := range closed {
		fh.close()
	}
}

func addFileHook(l *logrus.Logger, name string, cfg *fileLogConfig) {
	removeFileHook(l)
	var formatter logrus.Formatter = &TextFormatter{LoggerName: name, TimestampFormat: defaultTimestampFormat, NameWidth: 10, DisableColors: true}
	if cfg.format == "json" {
		formatter = &JSONFormatter{LoggerName: name, TimestampFormat: defaultTimestampFormat}
	}
	writer := func(level string) io.Writer {
		return &dailyLevelWriter{baseDir: cfg.dir, level: level, maxAgeDays: cfg.maxAgeDays}
	}
	errW := writer("error")
	l.AddHook(&levelWriterHook{
		writers: map[logrus.Level]io.Writer{
			logrus.TraceLevel: writer("trace"),
			logrus.DebugLevel: writer("debug"),
			logrus.InfoLevel:  writer("info"),
			logrus.WarnLevel:  writer("warn"),
			logrus.ErrorLevel: errW,
			logrus.FatalLevel: errW,
			logrus.PanicLevel: errW,
		},
		formatter: formatter,
	})
}

type levelWriterHook struct {
	writers   map[logrus.Level]io.Writer
	formatter logrus.Formatter
}

func (h *levelWriterHook) close() {
	for _, w := range h.writers {
		if dw, ok := w.(*dailyLevelWriter); ok {
			dw.close()
		}
	}
}

func (h *levelWriterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *levelWriterHook) Fire(e *logrus.Entry) error {
	w, ok := h.writers[e.Level]
	if !ok {
		return nil
	}
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// dailyLevelWriter appends to baseDir/<date>/<level>.log, reopening when
// the date changes.
type dailyLevelWriter struct {
	baseDir    string
	level      string
	maxAgeDays int

	mu      sync.Mutex
	curDate string
	file    *os.File
}

func (w *dailyLevelWriter) Write(p []byte) (int, error) {
	date := time.Now().Format(fileDateLayout)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil || w.curDate != date {
		rolled := w.file != nil
		if err := w.open(date); err != nil {
			return 0, err
		}
		if rolled {
			w.cleanup()
		}
	}
	return w.file.Write(p)
}

func (w *dailyLevelWriter) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
}

func (w *dailyLevelWriter) open(date string) error {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
	dir := filepath.Join(w.baseDir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, fmt.Sprintf("%s.log", w.level)), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.file = f
	w.curDate = date
	return nil
}

func (w *dailyLevelWriter) cleanup() {
	if w.maxAgeDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -w.maxAgeDays).Format(fileDateLayout)
	entries, err := os.ReadDir(w.baseDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse(fileDateLayout, e.Name()); err != nil {
			continue
		}
		// ISO dates sort lexically
		if e.Name() < cutoff {
			_ = os.RemoveAll(filepath.Join(w.baseDir, e.Name()))
		}
	}
}

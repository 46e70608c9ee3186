// Package golog is a small leveled logger with key/value context. Output is
// delegated to a Handler so the same call sites can write logfmt to a terminal
// or structured JSON through zap.
package golog

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents a log level (CRIT, ERR, ...)
type Level int32

type Logger interface {
	Context(ctx ...interface{}) Logger

	SetLevel(l Level) Level
	Level() Level
	// L returns true if the current level is greater than or equal to 'l'
	L(l Level) bool

	SetHandler(h Handler)
	Handler() Handler

	Logf(calldepth int, l Level, format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type Handler interface {
	Log(e *Entry) error
}

type Entry struct {
	Time time.Time
	Lvl  Level
	Msg  string
	Ctx  []interface{}
	Src  string
}

// Log levels
const (
	CRIT  Level = iota // For panics (code bugs)
	ERR                // General errors (e.g. failed remote calls)
	WARN               // e.g. correctable but inconsistent state
	INFO               // e.g. progress of a publish
	DEBUG              // Normally turned off but can help to track down issues
)

// Levels maps log level to a string
var Levels = map[Level]string{
	CRIT:  "CRIT",
	ERR:   "ERR",
	WARN:  "WARN",
	INFO:  "INFO",
	DEBUG: "DEBUG",
}

func (l Level) String() string {
	if s := Levels[l]; s != "" {
		return s
	}
	return strconv.Itoa(int(l))
}

// ParseLevel maps a level name (case insensitive) to its Level.
func ParseLevel(s string) (Level, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "ERROR":
		return ERR, nil
	case "WARNING":
		return WARN, nil
	case "CRITICAL":
		return CRIT, nil
	}
	for l, name := range Levels {
		if name == s {
			return l, nil
		}
	}
	return INFO, fmt.Errorf("golog: unknown level %q", s)
}

type logger struct {
	mu  sync.Mutex
	ctx []interface{}
	hnd Handler
	lvl atomic.Int32
}

var defaultL Logger

func init() {
	defaultL = New(DefaultHandler, INFO)
}

var DefaultHandler = IOHandler(os.Stdout, os.Stderr, LogfmtFormatter())

// New returns a logger writing entries at or above lvl to h.
func New(h Handler, lvl Level) Logger {
	l := &logger{hnd: h}
	l.lvl.Store(int32(lvl))
	return l
}

// Discard returns a logger that drops every entry.
func Discard() Logger {
	return New(HandlerFunc(func(*Entry) error { return nil }), CRIT)
}

func Default() Logger {
	return defaultL
}

// SetDefault replaces the package level logger used by the top level helpers.
func SetDefault(l Logger) {
	defaultL = l
}

func (l *logger) SetLevel(lvl Level) Level {
	return Level(l.lvl.Swap(int32(lvl)))
}

func (l *logger) Level() Level {
	return Level(l.lvl.Load())
}

func (l *logger) SetHandler(h Handler) {
	l.mu.Lock()
	l.hnd = h
	l.mu.Unlock()
}

func (l *logger) Handler() Handler {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hnd
}

func (l *logger) L(lvl Level) bool {
	return l.Level() >= lvl
}

func (l *logger) Context(ctx ...interface{}) Logger {
	if len(ctx)%2 != 0 {
		ctx = append(ctx, "MISSING")
	}
	if len(l.ctx) != 0 {
		merged := make([]interface{}, 0, len(l.ctx)+len(ctx))
		ctx = append(append(merged, l.ctx...), ctx...)
	}
	c := &logger{ctx: ctx, hnd: l.Handler()}
	c.lvl.Store(int32(l.Level()))
	return c
}

func (l *logger) Logf(calldepth int, lvl Level, format string, args ...interface{}) {
	if !l.L(lvl) {
		return
	}
	entry := &Entry{
		Time: time.Now(),
		Lvl:  lvl,
		Msg:  fmt.Sprintf(format, args...),
		Ctx:  l.ctx,
	}
	if calldepth > 0 {
		if _, file, line, ok := runtime.Caller(calldepth); ok {
			entry.Src = fmt.Sprintf("%s:%d", shortPath(file), line)
		}
	}
	// A failing handler has nowhere better to report to.
	_ = l.Handler().Log(entry)
}

// shortPath keeps the last directory and the file name.
func shortPath(file string) string {
	i := strings.LastIndexByte(file, '/')
	if i <= 0 {
		return file
	}
	if j := strings.LastIndexByte(file[:i], '/'); j >= 0 {
		return file[j+1:]
	}
	return file
}

func (l *logger) Fatalf(format string, args ...interface{}) {
	l.Logf(2, CRIT, format, args...)
	os.Exit(255)
}

func (l *logger) Criticalf(format string, args ...interface{}) {
	l.Logf(2, CRIT, format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.Logf(2, ERR, format, args...)
}

func (l *logger) Warningf(format string, args ...interface{}) {
	l.Logf(2, WARN, format, args...)
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.Logf(-1, INFO, format, args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.Logf(-1, DEBUG, format, args...)
}

func Fatalf(format string, args ...interface{}) {
	defaultL.Logf(2, CRIT, format, args...)
	os.Exit(255)
}

func Errorf(format string, args ...interface{}) {
	defaultL.Logf(2, ERR, format, args...)
}

func Warningf(format string, args ...interface{}) {
	defaultL.Logf(2, WARN, format, args...)
}

func Infof(format string, args ...interface{}) {
	defaultL.Infof(format, args...)
}

func Debugf(format string, args ...interface{}) {
	defaultL.Debugf(format, args...)
}

// Package testlog records log output for assertions in tests.
package testlog

import (
	"sync"

	"courierflow/internal/logx"
)

// Entry is one captured log call.
type Entry struct {
	Level  string
	Msg    string
	Fields []logx.Field
}

// Recorder collects entries from every logger handed out by Logger.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns an empty Recorder.
func New() *Recorder { return &Recorder{} }

// Logger returns a logx.Logger that appends to the recorder.
func (r *Recorder) Logger() logx.Logger { return capture{rec: r} }

// Entries returns a snapshot of everything logged so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

func (r *Recorder) record(level, msg string, fields []logx.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{
		Level:  level,
		Msg:    msg,
		Fields: append([]logx.Field(nil), fields...),
	})
}

type capture struct {
	rec  *Recorder
	with []logx.Field
}

func (c capture) log(level, msg string, fields []logx.Field) {
	all := make([]logx.Field, 0, len(c.with)+len(fields))
	all = append(all, c.with...)
	all = append(all, fields...)
	c.rec.record(level, msg, all)
}

func (c capture) Debug(msg string, f ...logx.Field) { c.log("debug", msg, f) }
func (c capture) Info(msg string, f ...logx.Field)  { c.log("info", msg, f) }
func (c capture) Warn(msg string, f ...logx.Field)  { c.log("warn", msg, f) }
func (c capture) Error(msg string, f ...logx.Field) { c.log("error", msg, f) }

func (c capture) With(f ...logx.Field) logx.Logger {
	return capture{rec: c.rec, with: append(append([]logx.Field(nil), c.with...), f...)}
}

func (c capture) Sync() error { return nil }

var _ logx.Logger = capture{}

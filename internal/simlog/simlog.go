// Package simlog provides the named-channel logging used across the
// simulation core. Each subsystem writes to its own channel ("tasks",
// "sim", "housemerge", ...) and the host sets one output level per
// channel; channels default to Silent so a host that never configures
// logging gets none of it.
package simlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Level is the verbosity of a channel, from least to most chatty.
type Level int

const (
	Silent Level = iota
	Error
	Warn
	Info
	Verbose
)

func (l Level) String() string {
	switch l {
	case Silent:
		return "SILENT"
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	case Info:
		return "INFO"
	case Verbose:
		return "VERBOSE"
	default:
		return "UNKNOWN"
	}
}

var (
	mu       sync.Mutex
	levels   = make(map[string]Level)
	out      = os.Stderr
	nowFunc  = time.Now
	initOnce bool
)

// Init sets the output levels for a set of channels. It is meant to be
// called once by the host at startup; calling it again merges in new
// channel levels rather than resetting ones already configured.
func Init(channelLevels map[string]Level) {
	mu.Lock()
	defer mu.Unlock()
	for ch, lvl := range channelLevels {
		levels[ch] = lvl
	}
	initOnce = true
}

// Initialized reports whether Init has ever been called.
func Initialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return initOnce
}

// SetLevel sets the level for a single channel.
func SetLevel(channel string, level Level) {
	mu.Lock()
	defer mu.Unlock()
	levels[channel] = level
}

func levelFor(channel string) Level {
	mu.Lock()
	defer mu.Unlock()
	if lvl, ok := levels[channel]; ok {
		return lvl
	}
	return Silent
}

// Channel is a bound logger for one named channel, cheap to keep around on
// a long-lived struct (a TileMap, a World, ...).
type Channel struct {
	name string
}

// For returns the logger bound to the given channel name.
func For(channel string) Channel {
	return Channel{name: channel}
}

func (c Channel) log(level Level, format string, args ...interface{}) {
	if levelFor(c.name) < level {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s [%s] %s: %s\n", nowFunc().Format("15:04:05.000"), level, c.name, fmt.Sprintf(format, args...))
}

func (c Channel) Errorf(format string, args ...interface{})   { c.log(Error, format, args...) }
func (c Channel) Warnf(format string, args ...interface{})    { c.log(Warn, format, args...) }
func (c Channel) Infof(format string, args ...interface{})    { c.log(Info, format, args...) }
func (c Channel) Verbosef(format string, args ...interface{}) { c.log(Verbose, format, args...) }

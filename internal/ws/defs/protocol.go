package defs

import "time"

// Topic is one of the fixed websocket broadcast streams.
type Topic string

const (
	TopicTelemetry Topic = "telemetry"
	TopicConsole   Topic = "console"
)

// Prefix is the tag connection logs of a topic carry.
func (t Topic) Prefix() string {
	switch t {
	case TopicTelemetry:
		return "[HTOP]"
	case TopicConsole:
		return "[ALGS]"
	default:
		return "[" + string(t) + "]"
	}
}

// Protocol constants
const (
	DefaultWriteTimeout      = 10 * time.Second
	DefaultTelemetryInterval = 100 * time.Millisecond
	DefaultConsoleInterval   = 2000 * time.Millisecond

	ReadBufferSize  = 4096
	WriteBufferSize = 4096
)

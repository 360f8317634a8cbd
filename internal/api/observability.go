package api

import (
	"github.com/charmbracelet/log"
)

// CallEvent records metadata about a single API request.
type CallEvent struct {
	Method       string
	Path         string
	RequestID    string
	StatusCode   int
	LatencyMs    int64
	Success      bool
	ErrorCode    string
	TokenCleared bool
	ClearErr     error
}

// Observer receives events about API calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes API call events to a structured logger.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver creates an Observer that logs events to logger.
func NewLogObserver(logger *log.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	kv := []any{
		"method", e.Method,
		"path", e.Path,
		"status", e.StatusCode,
		"latency_ms", e.LatencyMs,
		"request_id", e.RequestID,
	}
	if e.Success {
		o.logger.Debug("api call", kv...)
		return
	}
	o.logger.Warn("api call failed", append(kv, "code", e.ErrorCode)...)
	if e.TokenCleared {
		o.logger.Info("stored token cleared after 401", "request_id", e.RequestID)
	}
	if e.ClearErr != nil {
		o.logger.Error("clearing stored token failed", "request_id", e.RequestID, "err", e.ClearErr)
	}
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

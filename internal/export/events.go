package export

import (
	"errors"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// Sink receives stream events in order. Implementations typically encode
// each event as one server-sent-event data line.
type Sink interface {
	Send(event any) error
}

// ProgressEvent is sent after each batch.
type ProgressEvent struct {
	Progress int   `json:"progress"`
	Total    int64 `json:"total"`
	Current  int64 `json:"current"`
}

// CompleteEvent is the terminal success event.
type CompleteEvent struct {
	Done        bool   `json:"done"`
	File        string `json:"file"` // base64
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
}

// ErrorEvent is the terminal failure event.
type ErrorEvent struct {
	Error string `json:"error"`
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(event any) error

func (f SinkFunc) Send(event any) error { return f(event) }

func publicMessage(err error) string {
	if errors.Is(err, domain.ErrNoExportData) {
		return domain.ErrNoExportData.Error()
	}
	return "export failed"
}

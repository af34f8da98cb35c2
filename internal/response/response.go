// Package response defines the uniform API envelope every operation
// returns. Services never let faults cross their boundary; they catch,
// log, and wrap them here so handlers only have to render.
package response

import "net/http"

// Kind distinguishes result dispositions that share a status code. The
// not-found-vs-empty split is deliberately inconsistent across operations
// (list operations treat an empty set as success, point lookups as a miss)
// and is kept per call site rather than unified.
type Kind int

const (
	KindFound Kind = iota
	KindEmpty
	KindInvalid
	KindNotFound
	KindFault
)

type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Kind    Kind        `json:"-"`
}

func Found(message string, data interface{}) *Envelope {
	return &Envelope{Code: http.StatusOK, Message: message, Data: data, Kind: KindFound}
}

func Created(message string, data interface{}) *Envelope {
	return &Envelope{Code: http.StatusCreated, Message: message, Data: data, Kind: KindFound}
}

// Empty is a successful response over an empty result set; data still
// carries the zero-count page shape.
func Empty(message string, data interface{}) *Envelope {
	return &Envelope{Code: http.StatusOK, Message: message, Data: data, Kind: KindEmpty}
}

func Invalid(message string) *Envelope {
	return &Envelope{Code: http.StatusBadRequest, Message: message, Kind: KindInvalid}
}

func NotFound(message string) *Envelope {
	return &Envelope{Code: http.StatusNotFound, Message: message, Kind: KindNotFound}
}

// Fault surfaces the underlying failure message for diagnostics.
func Fault(err error) *Envelope {
	return &Envelope{Code: http.StatusInternalServerError, Message: err.Error(), Kind: KindFault}
}

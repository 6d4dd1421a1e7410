package ops

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modscope/modscope/budget"
	"github.com/modscope/modscope/discover"
	"github.com/modscope/modscope/introspect"
	"github.com/modscope/modscope/query"
)

// ContractVersion is the envelope contract version stamped on every
// response, success or error.
const ContractVersion = "v1"

// ErrorCode classifies an operation failure for the caller.
type ErrorCode string

const (
	CodeModuleNotFound  ErrorCode = "ModuleNotFound"
	CodeTypeNotFound    ErrorCode = "TypeNotFound"
	CodeMemberNotFound  ErrorCode = "MemberNotFound"
	CodeInvalidArgument ErrorCode = "InvalidArgument"
	CodeInvalidToken    ErrorCode = "InvalidContinuationToken"
	CodeTooLarge        ErrorCode = "ResponseTooLarge"
	CodeInternal        ErrorCode = "InternalError"
)

// Envelope is the uniform response wrapper. Success envelopes carry Kind,
// Version and Data; error envelopes use Kind "error" and carry Code,
// Message and optional Details instead.
type Envelope struct {
	Kind    string          `json:"kind"`
	Version string          `json:"version"`
	Data    json.RawMessage `json:"data,omitempty"`
	Code    ErrorCode       `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Details map[string]any  `json:"details,omitempty"`
}

// OpError is a classified operation failure. Handlers return one when the
// failure has a caller-meaningful code; everything else classifies as
// InternalError at the boundary.
type OpError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

func (e *OpError) Error() string {
	return fmt.Sprintf("ops: %s: %s", e.Code, e.Message)
}

func opErrorf(code ErrorCode, format string, args ...any) *OpError {
	return &OpError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// successEnvelope renders a success envelope of the given kind around data.
func successEnvelope(kind string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("ops: marshal %s data: %w", kind, err)
	}
	return json.Marshal(Envelope{Kind: kind, Version: ContractVersion, Data: raw})
}

// errorEnvelope renders the error envelope for err. It never fails; a
// marshal failure degrades to a static InternalError envelope.
func errorEnvelope(err error) []byte {
	oe := classify(err)
	payload, merr := json.Marshal(Envelope{
		Kind:    "error",
		Version: ContractVersion,
		Code:    oe.Code,
		Message: oe.Message,
		Details: oe.Details,
	})
	if merr != nil {
		return []byte(`{"kind":"error","version":"` + ContractVersion +
			`","code":"InternalError","message":"failed to render error envelope"}`)
	}
	return payload
}

// classify maps an internal error to the operation error the caller sees.
func classify(err error) *OpError {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe
	}

	var tooLarge *budget.TooLargeError
	switch {
	case errors.As(err, &tooLarge):
		return &OpError{
			Code:    CodeTooLarge,
			Message: tooLarge.Error(),
			Details: map[string]any{"actualSize": tooLarge.Actual, "maxSize": tooLarge.Max},
		}
	case errors.Is(err, introspect.ErrModuleNotFound), errors.Is(err, discover.ErrNotFound):
		return &OpError{Code: CodeModuleNotFound, Message: err.Error()}
	case errors.Is(err, query.ErrInvalidToken), errors.Is(err, query.ErrTokenMismatch):
		return &OpError{Code: CodeInvalidToken, Message: err.Error()}
	case errors.Is(err, query.ErrNegativeSkip):
		return &OpError{Code: CodeInvalidArgument, Message: err.Error()}
	default:
		return &OpError{Code: CodeInternal, Message: err.Error()}
	}
}

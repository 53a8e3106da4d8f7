package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/summarizer"
)

// RequestIDHeader carries the request ID over HTTP and in NATS headers.
const RequestIDHeader = "X-Request-ID"

// SummarizeRequest is the payload accepted by every transport. A zero
// Ratio selects the configured default.
type SummarizeRequest struct {
	Text  string  `json:"text"`
	Ratio float64 `json:"ratio,omitempty"`
}

// ErrorResponse is the error body returned by every transport.
type ErrorResponse struct {
	Error     string `json:"error"`
	Class     string `json:"class"`
	RequestID string `json:"request_id,omitempty"`
}

// DecodeRequest parses a JSON request body. Unknown fields and trailing
// data are rejected.
func DecodeRequest(data []byte) (*SummarizeRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var req SummarizeRequest
	if err := dec.Decode(&req); err != nil {
		return nil, errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrInvalidData, err),
			"Gateway", "DecodeRequest", "decode body")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.WrapInvalid(fmt.Errorf("%w: trailing data after request", errors.ErrInvalidData),
			"Gateway", "DecodeRequest", "decode body")
	}
	return &req, nil
}

// RatioOr returns the requested ratio, or def when none was given.
func (r *SummarizeRequest) RatioOr(def float64) float64 {
	if r.Ratio == 0 {
		return def
	}
	return r.Ratio
}

// Process decodes one request body and summarizes it with s.
func Process(ctx context.Context, s Summarizer, data []byte) (*summarizer.Result, error) {
	req, err := DecodeRequest(data)
	if err != nil {
		return nil, err
	}
	return s.Summarize(ctx, req.Text, req.RatioOr(s.Config().Ratio))
}

// RequestID returns existing when set, otherwise a new UUID.
func RequestID(existing string) string {
	if existing != "" {
		return existing
	}
	return uuid.NewString()
}

// clientErrors are the sentinels whose text is safe to return to callers.
var clientErrors = []error{
	errors.ErrInvalidRatio,
	errors.ErrEmptyText,
	errors.ErrInvalidData,
	errors.ErrTooLarge,
	errors.ErrRateLimited,
}

// NewErrorResponse builds the client-facing error body. Internal detail such
// as component names and wrapped causes is never exposed.
func NewErrorResponse(err error, requestID string) ErrorResponse {
	return ErrorResponse{
		Error:     PublicMessage(err),
		Class:     errors.Classify(err).String(),
		RequestID: requestID,
	}
}

// PublicMessage returns a message for err that is safe to show a caller.
func PublicMessage(err error) string {
	for _, sentinel := range clientErrors {
		if stderrors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return "request timeout"
	case errors.IsInvalid(err):
		return "invalid request"
	case errors.IsTransient(err):
		return "service temporarily unavailable"
	default:
		return "internal server error"
	}
}

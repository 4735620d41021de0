package custom_error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrEmptyDraft     = errors.New("draft has no lines")
	ErrNoReport       = errors.New("generate a report first")
	ErrBusy           = errors.New("another request for this action is still in flight")
	ErrToggleLocked   = errors.New("flags of this user cannot be changed")
	// ErrUnreadableResponse means the API answered 2xx, so the write happened,
	// but its body could not be decoded.
	ErrUnreadableResponse = errors.New("request accepted, response unreadable")
)

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type DuplicateLotError struct {
	LotID int
}

func (e *DuplicateLotError) Error() string {
	return fmt.Sprintf("lot %d is already part of the draft; remove it and add it again to change the quantity", e.LotID)
}

// APIError is a non-success response of the inventory API. Body is kept verbatim.
type APIError struct {
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inventory api responded %d: %s", e.Status, e.Message())
}

// Message stringifies the server payload.
func (e *APIError) Message() string {
	text := strings.TrimSpace(string(e.Body))
	if text == "" {
		return "empty response"
	}
	return text
}

// Payload decodes the body as JSON when possible.
func (e *APIError) Payload() interface{} {
	var payload interface{}
	if err := json.Unmarshal(e.Body, &payload); err != nil {
		return e.Message()
	}
	return payload
}

// Member returns the stringified value of the first present key of a JSON
// object body, or the whole body when none of the keys is present.
func (e *APIError) Member(keys ...string) string {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &object); err != nil {
		return e.Message()
	}
	for _, key := range keys {
		raw, ok := object[key]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			return text
		}
		return string(raw)
	}
	return e.Message()
}

// Rejection narrows an APIError to the members a form reports, in order of preference.
type Rejection struct {
	*APIError
	keys []string
}

func (e *Rejection) Error() string {
	return e.Member(e.keys...)
}

func (e *Rejection) Unwrap() error {
	return e.APIError
}

// Narrow wraps API errors into a Rejection and returns any other error unchanged.
func Narrow(err error, keys ...string) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return &Rejection{APIError: apiErr, keys: keys}
}

// TransportError is a network-level failure; no response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

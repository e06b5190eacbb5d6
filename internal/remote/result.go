package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Outcome discriminates a Result.
type Outcome int

const (
	// ResultSuccess means the server accepted the submission.
	ResultSuccess Outcome = iota + 1
	// ResultFailure means the server answered but did not accept it.
	ResultFailure
)

func (o Outcome) String() string {
	switch o {
	case ResultSuccess:
		return "success"
	case ResultFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the interpreted answer to a creation request. StatusCode is kept
// for logging only; it never influences Outcome.
type Result struct {
	Outcome    Outcome
	Message    string
	StatusCode int
	Body       json.RawMessage
}

// OK reports whether the submission was accepted.
func (r Result) OK() bool {
	return r.Outcome == ResultSuccess
}

// Success builds a successful Result.
func Success(body json.RawMessage) Result {
	return Result{Outcome: ResultSuccess, Body: body}
}

// Failure builds a failed Result carrying message.
func Failure(message string) Result {
	return Result{Outcome: ResultFailure, Message: message}
}

// Interpret classifies a response body. Only a JSON object or array counts
// as an acknowledgment: a body that is not JSON, a bare scalar or null is a
// failure. An object whose "message" is truthy (anything but null, false, 0
// or "") is a failure carrying that message.
func Interpret(body []byte) Result {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return Failure(fmt.Sprintf("invalid JSON response: %q", snippet(trimmed)))
	}
	switch trimmed[0] {
	case '[':
		return Success(json.RawMessage(trimmed))
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return Failure(fmt.Sprintf("invalid JSON response: %q", snippet(trimmed)))
		}
		if raw, ok := fields["message"]; ok && truthy(raw) {
			return Failure(messageText(raw))
		}
		return Success(json.RawMessage(trimmed))
	default:
		return Failure(fmt.Sprintf("unexpected response: %s", snippet(trimmed)))
	}
}

func snippet(body []byte) string {
	text := string(body)
	if len(text) > 120 {
		text = text[:120] + "..."
	}
	return text
}

func truthy(raw json.RawMessage) bool {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return true
	}
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

func messageText(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
		return "server returned a blank message"
	}
	return string(raw)
}

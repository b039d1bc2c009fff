package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// ErrNoSession signals redirect-to-login: there is no access token, the
// stored session has been cleared and no request was sent.
var ErrNoSession = errors.New("no active session; run `civic login`")

// ErrAuthExpired is returned by typed endpoint wrappers when the 401
// refresh path failed. The session is intentionally left in place: a
// server-side cookie session may still be valid through another channel,
// so tearing down is the caller's decision.
var ErrAuthExpired = errors.New("authorization expired; log in again")

// FieldErrors is the server's validation body: field name -> messages.
type FieldErrors map[string][]string

// Error concatenates the first field's messages (sorted field order, so
// the output is deterministic).
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	first := keys[0]
	msgs := fe[first]
	if len(msgs) == 0 {
		return fmt.Sprintf("%s: validation failed", first)
	}
	return fmt.Sprintf("%s: %s", first, strings.Join(msgs, ", "))
}

// StatusError carries a non-validation failure with the server-provided
// message when one could be extracted, else a generic fallback.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: %s", http.StatusText(e.StatusCode))
}

// ReadError interprets a non-2xx response body. Validation bodies (4xx
// field maps) become FieldErrors; `error`/`detail` messages are passed
// through; anything else falls back to the status text. The body is
// always drained so the connection can be reused.
func ReadError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	var simple struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(b, &simple); err == nil {
		if simple.Error != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: simple.Error}
		}
		if simple.Detail != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: simple.Detail}
		}
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(b, &fields); err == nil && len(fields) > 0 {
			fe := FieldErrors{}
			for k, raw := range fields {
				var msgs []string
				if err := json.Unmarshal(raw, &msgs); err == nil {
					fe[k] = msgs
					continue
				}
				var one string
				if err := json.Unmarshal(raw, &one); err == nil {
					fe[k] = []string{one}
				}
			}
			if len(fe) > 0 {
				return fe
			}
		}
	}

	return &StatusError{StatusCode: resp.StatusCode}
}

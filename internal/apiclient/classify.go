package apiclient

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/target/storefront/internal/errors"
)

// Response is a completed HTTP exchange with the body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// classify maps a non-2xx, non-retryable response to an AppError.
func classify(resp *Response) *apperrors.AppError {
	code := apperrors.CodeForStatus(resp.StatusCode)
	appErr := &apperrors.AppError{
		Code:    code,
		Message: apperrors.UserMessage(code),
		Status:  resp.StatusCode,
	}
	if code != apperrors.ErrCodeValidation {
		return appErr
	}

	msg, fields, first := extractValidation(resp.Body)
	if msg != "" {
		appErr.Message = msg
	}
	appErr.Fields = fields
	appErr.Field = first
	return appErr
}

// extractValidation reads a 400 body. The message is "detail", else "error",
// else the first message of the first field in document order. Field messages
// are collected for every key holding a string or a list of strings.
func extractValidation(body []byte) (msg string, fields map[string][]string, first string) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return "", nil, ""
	}

	if body[0] == '[' {
		var list []string
		if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
			return list[0], nil, ""
		}
		return "", nil, ""
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return "", nil, ""
	}

	var detail, errMsg, firstMsg string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			break
		}
		msgs := fieldMessages(raw)
		switch key {
		case "detail":
			if len(msgs) > 0 && detail == "" {
				detail = msgs[0]
			}
			continue
		case "error":
			if len(msgs) > 0 && errMsg == "" {
				errMsg = msgs[0]
			}
			continue
		}
		if len(msgs) == 0 {
			continue
		}
		if fields == nil {
			fields = make(map[string][]string)
		}
		fields[key] = msgs
		if first == "" {
			first, firstMsg = key, msgs[0]
		}
	}

	switch {
	case detail != "":
		return detail, fields, first
	case errMsg != "":
		return errMsg, fields, first
	default:
		return firstMsg, fields, first
	}
}

// fieldMessages accepts a string or a list of strings.
func fieldMessages(raw json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return []string{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		out := list[:0]
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return nil
}

// Package errors turns arbitrary errors into low-cardinality class names for
// metric tags and log fields.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strings"

	apperrors "github.com/target/storefront/internal/errors"
)

// Classify returns the error class used for the error_class tag. Classified
// API failures report their category. Context and network timeouts collapse to
// "canceled" or "timeout"; anything else is named after its innermost type.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case apperrors.GetCode(err) != "":
		return string(apperrors.GetCode(err))
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	return typeName(innermost(err))
}

func innermost(err error) error {
	for {
		next := goerrors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
}

package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`
}

// Dump flattens an error chain for structured logging. Joined errors
// (multierr, errors.Join) are expanded one level.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", inner, inner))
			}
			break
		}
	}

	return d
}

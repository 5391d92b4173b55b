package errors

import (
	"bytes"
	"fmt"
)

type errorSlice []error

func (m errorSlice) Error() string {
	var b bytes.Buffer
	for i, err := range m {
		if i > 0 {
			fmt.Fprint(&b, "\n")
		}
		fmt.Fprint(&b, err)
	}
	return b.String()
}

// Combine combines errors e & f into a single error. Either may be nil.
func Combine(e, f error) error {
	if e == nil {
		return f
	}
	if f == nil {
		return e
	}
	es, eok := e.(errorSlice)
	if !eok {
		es = errorSlice{e}
	}
	if fs, ok := f.(errorSlice); ok {
		return append(append(errorSlice(nil), es...), fs...)
	}
	return append(append(errorSlice(nil), es...), f)
}

// Defer is a helper method for deferring error-returning functions
func Defer(err *error, f func() error) {
	*err = Combine(*err, f())
}

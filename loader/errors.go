package loader

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/aws/aws-lambda-go/lambda/messages"
)

// FunctionError is an error raised by the user's function, as opposed
// to a failure to run it.
type FunctionError struct {
	Type       string
	Message    string
	StackTrace []*messages.InvokeResponse_Error_StackFrame
}

func (e *FunctionError) Error() string {
	if e.Type == "" {
		return e.Message
	}
	return e.Type + ": " + e.Message
}

func fromInvokeError(ie *messages.InvokeResponse_Error) *FunctionError {
	return &FunctionError{
		Type:       ie.Type,
		Message:    ie.Message,
		StackTrace: ie.StackTrace,
	}
}

func errorType(err error) string {
	t := reflect.TypeOf(err)
	if t.Kind() == reflect.Ptr {
		return t.Elem().Name()
	}
	return t.Name()
}

func fromHandlerError(err error) *FunctionError {
	return &FunctionError{
		Type:    errorType(err),
		Message: err.Error(),
	}
}

func fromPanic(v interface{}, skip int) *FunctionError {
	fe := &FunctionError{
		Type:    "Runtime.Panic",
		Message: fmt.Sprint(v),
	}
	if err, ok := v.(error); ok {
		fe.Type = errorType(err)
	}

	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		fe.StackTrace = append(fe.StackTrace, &messages.InvokeResponse_Error_StackFrame{
			Path:  frame.File,
			Line:  int32(frame.Line),
			Label: frame.Function,
		})
		if !more {
			break
		}
	}
	return fe
}

// Describe renders err for the error stream, including the stack
// trace of any FunctionError it wraps.
func Describe(err error) string {
	var b strings.Builder
	b.WriteString(err.Error())
	var fe *FunctionError
	if errors.As(err, &fe) {
		for _, frame := range fe.StackTrace {
			fmt.Fprintf(&b, "\n   at %s (%s:%d)", frame.Label, frame.Path, frame.Line)
		}
	}
	return b.String()
}

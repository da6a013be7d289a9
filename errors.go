// errors.go: error handling for the dendron logging system
//
// Grounded directly on agilira-iris/errors.go: the same ErrorCode/
// ErrorHandler/SetErrorHandler/GetErrorHandler shape, the same
// "New...Error" constructor style layering WithSeverity/WithContext onto
// github.com/agilira/go-errors, and the same caller-context-on-construct
// convention. The iris-specific codes (ring/encoding/hook/middleware) are
// replaced with the conditions this system actually raises (spec §7:
// unknown sink/group/logger references, duplicate names, sink graph
// cycles, the Syslog singleton invariant, and configuration document
// errors).
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import (
	"fmt"
	"os"
	"runtime"
	"time"

	errors "github.com/agilira/go-errors"
)

// Error codes raised by the dendron logging system.
const (
	ErrCodeSinkNotFound       errors.ErrorCode = "DENDRON_SINK_NOT_FOUND"
	ErrCodeSinkAlreadyExists  errors.ErrorCode = "DENDRON_SINK_ALREADY_EXISTS"
	ErrCodeSinkCycle          errors.ErrorCode = "DENDRON_SINK_CYCLE"
	ErrCodeSyslogSingleton    errors.ErrorCode = "DENDRON_SYSLOG_SINGLETON"
	ErrCodeGroupNotFound      errors.ErrorCode = "DENDRON_GROUP_NOT_FOUND"
	ErrCodeGroupAlreadyExists errors.ErrorCode = "DENDRON_GROUP_ALREADY_EXISTS"
	ErrCodeGroupCycle         errors.ErrorCode = "DENDRON_GROUP_CYCLE"
	ErrCodeLoggerNotFound     errors.ErrorCode = "DENDRON_LOGGER_NOT_FOUND"
	ErrCodeLoggerAlreadyExists errors.ErrorCode = "DENDRON_LOGGER_ALREADY_EXISTS"
	ErrCodeAlreadyConfigured  errors.ErrorCode = "DENDRON_ALREADY_CONFIGURED"
	ErrCodeInvalidConfig      errors.ErrorCode = "DENDRON_INVALID_CONFIG"
	ErrCodeInvalidLevel       errors.ErrorCode = "DENDRON_INVALID_LEVEL"
	ErrCodeInvalidDocument    errors.ErrorCode = "DENDRON_INVALID_DOCUMENT"
	ErrCodeFileOpen           errors.ErrorCode = "DENDRON_FILE_OPEN"
	ErrCodeFileWrite          errors.ErrorCode = "DENDRON_FILE_WRITE"
	ErrCodeFileRotation       errors.ErrorCode = "DENDRON_FILE_ROTATION"
	ErrCodeWriteFailed        errors.ErrorCode = "DENDRON_WRITE_FAILED"
)

// ErrorHandler processes an error raised internally by the logging
// system (a sink's write failure, a rotation failure) that has no
// application call site to return it to, since it happens on a
// background worker goroutine (spec §7).
type ErrorHandler func(err *errors.Error)

// defaultErrorHandler prints to stderr, same convention as iris's own
// default: never use the logging system itself to report the logging
// system's own errors.
var defaultErrorHandler ErrorHandler = func(err *errors.Error) {
	fmt.Fprintf(os.Stderr, "[dendron] %s: %s\n", err.Code, err.Message)
	if err.Cause != nil {
		fmt.Fprintf(os.Stderr, "[dendron] caused by: %v\n", err.Cause)
	}
}

var currentErrorHandler = defaultErrorHandler

// SetErrorHandler installs a process-wide handler for background errors
// raised by sink workers (write failures, rotation failures). Passing nil
// restores the default stderr handler.
func SetErrorHandler(handler ErrorHandler) {
	if handler == nil {
		currentErrorHandler = defaultErrorHandler
		return
	}
	currentErrorHandler = handler
}

// GetErrorHandler returns the currently installed handler.
func GetErrorHandler() ErrorHandler {
	return currentErrorHandler
}

// reportError routes err to the current handler, adding go_version and
// goroutine count to its context the same way iris's handleError does.
func reportError(err *errors.Error) {
	if err == nil {
		return
	}
	if err.Context == nil {
		err.Context = make(map[string]interface{})
	}
	err.Context["go_version"] = runtime.Version()
	err.Context["goroutines"] = runtime.NumGoroutine()
	currentErrorHandler(err)
}

// newError constructs a *errors.Error with standard context, capturing
// the immediate caller for debugging (same convention as iris's
// NewLoggerError).
func newError(code errors.ErrorCode, message string) *errors.Error {
	err := errors.New(code, message).
		WithSeverity("error").
		WithContext("component", "dendron").
		WithContext("timestamp", time.Now().UTC())

	if pc, file, line, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			_ = err.WithContext("caller_func", fn.Name())
		}
		_ = err.WithContext("caller_file", file)
		_ = err.WithContext("caller_line", line)
	}
	return err
}

// wrapError wraps an existing error with a dendron error code.
func wrapError(cause error, code errors.ErrorCode, message string) *errors.Error {
	err := errors.Wrap(cause, code, message).
		WithSeverity("error").
		WithContext("component", "dendron").
		WithContext("timestamp", time.Now().UTC())
	return err
}

// HasCode reports whether err is a dendron error with the given code.
func HasCode(err error, code errors.ErrorCode) bool {
	return errors.HasCode(err, code)
}

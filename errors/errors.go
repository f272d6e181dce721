// Package errors defines the error taxonomy of restbind.
//
// Every error produced by restbind itself is a *CodeError. Its Kind tells
// at which stage it happened: Configuration errors are returned while a
// client is being set up, InvalidArgument errors while a request is being
// built from call arguments, Dispatch errors when a call targets a method
// unknown to the client and Status errors when the server answered with
// a non-2xx HTTP status. Transport and codec failures are never wrapped.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
)

// Kind classifies a CodeError.
type Kind int

const (
	// Configuration means structurally invalid bindings of an endpoint.
	Configuration Kind = iota + 1

	// InvalidArgument means a call argument can not be placed into a request.
	InvalidArgument

	// Dispatch means the called method has no registered endpoint.
	Dispatch

	// Status means the server answered with a non-2xx HTTP status.
	Status
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case InvalidArgument:
		return "invalid argument"
	case Dispatch:
		return "dispatch"
	case Status:
		return "status"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type CodeError struct {
	kind   Kind
	code   codes.Code
	status int
	err    error
}

func (e *CodeError) Error() string {
	return e.err.Error()
}

func (e *CodeError) Unwrap() error {
	return e.err
}

func (e *CodeError) Kind() Kind {
	return e.kind
}

// Code returns gRPC code matching the error.
func (e *CodeError) Code() codes.Code {
	return e.code
}

// HttpCode returns HTTP status of the error. For errors of kind Status
// it is the status received from the server.
func (e *CodeError) HttpCode() int {
	if e.status != 0 {
		return e.status
	}
	return runtime.HTTPStatusFromCode(e.code)
}

func makeError(kind Kind, code codes.Code, format string, a ...interface{}) *CodeError {
	return &CodeError{
		kind: kind,
		code: code,
		err:  fmt.Errorf(format, a...),
	}
}

// Configurationf reports invalid bindings detected at setup time.
func Configurationf(format string, a ...interface{}) *CodeError {
	return makeError(Configuration, codes.FailedPrecondition, format, a...)
}

// InvalidArgumentf reports a call argument which can not be sent, e.g.
// a missing value of a required binding.
func InvalidArgumentf(format string, a ...interface{}) *CodeError {
	return makeError(InvalidArgument, codes.InvalidArgument, format, a...)
}

// Dispatchf reports a call of a method without registered endpoint.
// It means that the client was built from a different API declaration
// than the one used by the caller.
func Dispatchf(format string, a ...interface{}) *CodeError {
	return makeError(Dispatch, codes.Internal, format, a...)
}

// NewStatus creates an error of kind Status for HTTP status code.
func NewStatus(status int, err error) *CodeError {
	return &CodeError{
		kind:   Status,
		code:   CodeFromHTTPStatus(status),
		status: status,
		err:    err,
	}
}

var status2code = func() map[int]codes.Code {
	m := make(map[int]codes.Code)
	// Lower codes win: OK, Canceled, Unknown, InvalidArgument, ...
	for c := codes.OK; c <= codes.Unauthenticated; c++ {
		s := runtime.HTTPStatusFromCode(c)
		if _, has := m[s]; !has {
			m[s] = c
		}
	}
	return m
}()

// CodeFromHTTPStatus is the inverse of runtime.HTTPStatusFromCode.
// Statuses not produced by any gRPC code map to codes.Unknown.
func CodeFromHTTPStatus(status int) codes.Code {
	if c, has := status2code[status]; has {
		return c
	}
	return codes.Unknown
}

func is(err error, kind Kind) bool {
	var codeErr *CodeError
	return stderrors.As(err, &codeErr) && codeErr.kind == kind
}

func IsConfiguration(err error) bool {
	return is(err, Configuration)
}

func IsInvalidArgument(err error) bool {
	return is(err, InvalidArgument)
}

func IsDispatch(err error) bool {
	return is(err, Dispatch)
}

func IsStatus(err error) bool {
	return is(err, Status)
}

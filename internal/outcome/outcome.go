// Package outcome carries service results across the presentation
// boundary as tagged values instead of errors.
package outcome

import "net/http"

// Result is the outcome of a single service call. Code follows HTTP
// status semantics so the presentation layer can map it directly.
type Result[T any] struct {
	Code    int
	Message string
	Data    T
}

// Success reports whether the result carries data rather than a failure.
func (r Result[T]) Success() bool {
	return r.Code >= 200 && r.Code < 300
}

// OK wraps data retrieved or mutated successfully.
func OK[T any](data T, message string) Result[T] {
	return Result[T]{Code: http.StatusOK, Message: message, Data: data}
}

// Created wraps a newly persisted record.
func Created[T any](data T, message string) Result[T] {
	return Result[T]{Code: http.StatusCreated, Message: message, Data: data}
}

// BadRequest signals a rejected request (validation or uniqueness conflict).
func BadRequest[T any](message string) Result[T] {
	return Result[T]{Code: http.StatusBadRequest, Message: message}
}

// NotFound signals a lookup miss on an id or unique field.
func NotFound[T any](message string) Result[T] {
	return Result[T]{Code: http.StatusNotFound, Message: message}
}

// Internal signals an unexpected storage or crypto failure. The
// message is surfaced to the caller; nothing panics across this
// boundary.
func Internal[T any](message string) Result[T] {
	return Result[T]{Code: http.StatusInternalServerError, Message: message}
}

package result

import "errors"

var errNilFailure = errors.New("result: failure without error")

// Result is either a value (Ok) or an error (Fail).
// Services return it for expected failures; handlers unwrap it at the HTTP boundary.
type Result[T any] struct {
	value T
	err   error
}

// Void is the result of operations that produce no value.
type Void = Result[struct{}]

func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps err as a failed result. A nil err is replaced so a failure never looks like success.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = errNilFailure
	}
	return Result[T]{err: err}
}

// Done is the successful Void result.
func Done() Void {
	return Void{}
}

func (r Result[T]) IsOk() bool   { return r.err == nil }
func (r Result[T]) IsFail() bool { return r.err != nil }

// Value returns the success value, or the zero value of T on failure.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure, or nil on success.
func (r Result[T]) Err() error { return r.err }

// Unwrap converts the result into Go's usual (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Map transforms a success value, passing failures through untouched.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Fail[U](r.err)
	}
	return Ok(fn(r.value))
}

// FlatMap chains another fallible step onto a success value.
func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Fail[U](r.err)
	}
	return fn(r.value)
}

// From builds a result from a (value, error) pair.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

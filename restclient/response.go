package restclient

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/kbukum/restbase/codec"
)

const (
	// drainLimit bounds how much of an unread body is discarded so the
	// connection can be reused.
	drainLimit = 64 << 10
	// errorBodyLimit bounds the body prefix kept on status errors.
	errorBodyLimit = 4 << 10
)

// Read reads the whole body of resp as text, closes it and decodes the
// text into T. A nil response or body fails with ErrCodeNoBody; empty or
// malformed content fails with ErrCodeDecode.
func Read[T any](resp *http.Response, opts ...codec.DecodeOption) (T, error) {
	var zero T
	data, err := readBody(resp)
	if err != nil {
		return zero, err
	}
	v, err := codec.Unmarshal[T](data, opts...)
	if err != nil {
		derr := decodeError(err)
		derr.StatusCode = resp.StatusCode
		return zero, derr
	}
	return v, nil
}

// ReadAsync is the non-blocking form of Read.
func ReadAsync[T any](resp *http.Response, opts ...codec.DecodeOption) *Future[T] {
	return goFuture(func() (T, error) {
		return Read[T](resp, opts...)
	})
}

// ReadPath reads the body of resp, closes it and returns the value at a
// gjson path such as "data.items.0.id". A missing path yields a result
// whose Exists method reports false.
func ReadPath(resp *http.Response, path string) (gjson.Result, error) {
	data, err := readBody(resp)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &Error{
			Code:       ErrCodeDecode,
			Message:    "response body is not valid JSON",
			StatusCode: resp.StatusCode,
			Err:        &codec.DecodeError{Target: "gjson.Result", Err: errors.New("invalid json")},
		}
	}
	return gjson.GetBytes(data, path), nil
}

// Inspect calls fn with resp and returns resp itself. A panic in fn
// propagates to the caller.
func Inspect(resp *http.Response, fn func(*http.Response)) *http.Response {
	fn(resp)
	return resp
}

// EnsureSuccess returns nil for a 2xx response. Otherwise it reads a
// prefix of the body into the error and closes the body.
func EnsureSuccess(resp *http.Response) error {
	if resp == nil {
		return decodeError(codec.ErrNilStream)
	}
	if err := statusError(resp); err != nil {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
		return err
	}
	return nil
}

// statusError builds an ErrCodeStatus error for a non-2xx response. The
// body is read but not closed.
func statusError(resp *http.Response) *Error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var body []byte
	if resp.Body != nil {
		body, _ = io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	}
	return &Error{
		Code:       ErrCodeStatus,
		Message:    fmt.Sprintf("unexpected status %s", resp.Status),
		StatusCode: resp.StatusCode,
		Body:       body,
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	if resp == nil || resp.Body == nil {
		return nil, decodeError(codec.ErrNilStream)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, decodeError(err)
	}
	return data, nil
}

func drain(body io.Reader) {
	_, _ = io.CopyN(io.Discard, body, drainLimit)
}

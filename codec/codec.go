package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	json "github.com/goccy/go-json"
)

// ContentType is the media type of every body this package produces.
const ContentType = "application/json"

// ErrNilStream is returned when decoding is attempted against an absent body.
var ErrNilStream = errors.New("codec: nil stream")

// ErrTrailingData is wrapped by a DecodeError when a complete value is
// followed by more content.
var ErrTrailingData = errors.New("codec: trailing data after value")

// DecodeError reports content that is empty, malformed, or does not match
// the requested shape.
type DecodeError struct {
	// Target is the Go type that was requested.
	Target string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: decode %s: %v", e.Target, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a value that could not be serialized.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "codec: encode: " + e.Err.Error() }

func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeOption tunes a single decode call.
type DecodeOption func(*json.Decoder)

// DisallowUnknownFields makes decoding fail when the input has object keys
// the target struct does not declare.
func DisallowUnknownFields() DecodeOption {
	return func(d *json.Decoder) { d.DisallowUnknownFields() }
}

// UseNumber decodes numbers into json.Number instead of float64 when the
// target is an interface value.
func UseNumber() DecodeOption {
	return func(d *json.Decoder) { d.UseNumber() }
}

// Encode streams v into w as compact UTF-8 JSON followed by a newline.
// HTML characters are not escaped.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return &EncodeError{Err: err}
	}
	return nil
}

// Marshal returns the compact JSON encoding of v with no trailing newline.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// Decode reads r to the end and decodes the single JSON value it holds
// into a new T.
func Decode[T any](r io.Reader, opts ...DecodeOption) (T, error) {
	var out T
	if r == nil {
		return out, ErrNilStream
	}

	dec := json.NewDecoder(r)
	for _, opt := range opts {
		opt(dec)
	}
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		var zero T
		return zero, &DecodeError{Target: reflect.TypeFor[T]().String(), Err: err}
	}
	// The input must hold exactly one value; only whitespace may follow.
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = ErrTrailingData
		}
		var zero T
		return zero, &DecodeError{Target: reflect.TypeFor[T]().String(), Err: err}
	}
	return out, nil
}

// Unmarshal decodes data into a new T.
func Unmarshal[T any](data []byte, opts ...DecodeOption) (T, error) {
	return Decode[T](bytes.NewReader(data), opts...)
}

// IsDecodeError reports whether err is, or wraps, a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

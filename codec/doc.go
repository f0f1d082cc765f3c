// Package codec encodes and decodes JSON request and response bodies.
//
// Encoding streams straight into the destination writer with no
// indentation. Decoding is generic over the target type and reports
// every failure as a *DecodeError, except a missing stream which is
// reported as ErrNilStream.
package codec

package restclient

import (
	"context"
	"net/http"

	"github.com/kbukum/restbase/codec"
)

// Send issues a request and decodes the JSON response body into T. The
// body is streamed into the decoder and always closed.
func Send[T any](ctx context.Context, c *Client, method, path string, content any, hooks ...RequestHook) (T, error) {
	return SendAsync[T](ctx, c, method, path, content, hooks...).Wait()
}

// SendAsync is the non-blocking form of Send.
func SendAsync[T any](ctx context.Context, c *Client, method, path string, content any, hooks ...RequestHook) *Future[T] {
	return then(c.SendAsync(ctx, method, path, content, hooks...), func(resp *http.Response) (T, error) {
		return decodeResponse[T](c, resp)
	})
}

// Get issues a GET request and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, path string, hooks ...RequestHook) (T, error) {
	return Send[T](ctx, c, http.MethodGet, path, nil, hooks...)
}

// GetAsync is the non-blocking form of Get.
func GetAsync[T any](ctx context.Context, c *Client, path string, hooks ...RequestHook) *Future[T] {
	return SendAsync[T](ctx, c, http.MethodGet, path, nil, hooks...)
}

// Post issues a POST request and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, path string, content any, hooks ...RequestHook) (T, error) {
	return Send[T](ctx, c, http.MethodPost, path, content, hooks...)
}

// PostAsync is the non-blocking form of Post.
func PostAsync[T any](ctx context.Context, c *Client, path string, content any, hooks ...RequestHook) *Future[T] {
	return SendAsync[T](ctx, c, http.MethodPost, path, content, hooks...)
}

// Put issues a PUT request and decodes the response into T.
func Put[T any](ctx context.Context, c *Client, path string, content any, hooks ...RequestHook) (T, error) {
	return Send[T](ctx, c, http.MethodPut, path, content, hooks...)
}

// PutAsync is the non-blocking form of Put.
func PutAsync[T any](ctx context.Context, c *Client, path string, content any, hooks ...RequestHook) *Future[T] {
	return SendAsync[T](ctx, c, http.MethodPut, path, content, hooks...)
}

// Patch issues a PATCH request and decodes the response into T.
func Patch[T any](ctx context.Context, c *Client, path string, content any, hooks ...RequestHook) (T, error) {
	return Send[T](ctx, c, http.MethodPatch, path, content, hooks...)
}

// PatchAsync is the non-blocking form of Patch.
func PatchAsync[T any](ctx context.Context, c *Client, path string, content any, hooks ...RequestHook) *Future[T] {
	return SendAsync[T](ctx, c, http.MethodPatch, path, content, hooks...)
}

// Delete issues a DELETE request and decodes the response into T.
func Delete[T any](ctx context.Context, c *Client, path string, content any, hooks ...RequestHook) (T, error) {
	return Send[T](ctx, c, http.MethodDelete, path, content, hooks...)
}

// DeleteAsync is the non-blocking form of Delete.
func DeleteAsync[T any](ctx context.Context, c *Client, path string, content any, hooks ...RequestHook) *Future[T] {
	return SendAsync[T](ctx, c, http.MethodDelete, path, content, hooks...)
}

// decodeResponse streams the body of resp into T and closes it.
func decodeResponse[T any](c *Client, resp *http.Response) (T, error) {
	var zero T
	if resp == nil || resp.Body == nil {
		return zero, decodeError(codec.ErrNilStream)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.statusCheck {
		if err := statusError(resp); err != nil {
			return zero, err
		}
	}
	v, err := codec.Decode[T](resp.Body)
	if err != nil {
		derr := decodeError(err)
		derr.StatusCode = resp.StatusCode
		return zero, derr
	}
	drain(resp.Body)
	return v, nil
}

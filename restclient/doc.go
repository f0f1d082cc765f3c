// Package restclient is a base for typed JSON REST API clients.
//
// A Client is bound to one absolute base URL. Each call resolves a
// relative path against it, optionally encodes a value as the JSON body,
// lets RequestHooks adjust the request and then sends it over a transport
// created on first use and shared by every call.
//
//	c, err := restclient.New(restclient.Config{
//	    BaseURL: "https://api.example.com/v1/",
//	    Timeout: 10 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	user, err := restclient.Get[User](ctx, c, "users/42", restclient.BearerAuth(token))
//
// # Raw and typed calls
//
// Methods on Client (Get, Post, Put, Patch, Delete, Send) return the
// *http.Response and never treat a status code as an error. The generic
// functions of the same names decode the body into a type parameter.
// Every call has an Async form returning a Future.
//
// # Errors
//
// All failures are *Error values. Use IsTimeout, IsTransport, IsDecode
// and the other classifiers, or errors.As for the details.
//
// # Timeouts
//
// Config.Timeout covers a call from the moment its hooks return until
// the response body is closed, so it also bounds reading the body. Close
// bodies of raw responses promptly to release the deadline.
package restclient

// Package version carries build metadata and derives the default
// User-Agent that restbase clients send.
//
// Values are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/restbase/version.Version=1.2.0"
package version

// Package logger provides structured logging for restbase using zerolog.
//
// Loggers are cheap values derived from one another: a client takes a
// component-tagged logger and enriches it per request with fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("billing-api").WithComponent("restclient")
//	log.Debug("request sent", logger.Fields("method", "GET", "status", 200))
package logger

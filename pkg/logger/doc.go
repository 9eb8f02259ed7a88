// Package logger provides a thin structured-logging wrapper around Uber's Zap.
//
// Every package in this repository that needs logging declares a small local
// Logger interface with the method set below and receives this wrapper by
// injection, keeping the packages decoupled from Zap itself:
//
//	Info(msg string, err error, fields ...map[string]interface{})
//	Debug(msg string, err error, fields ...map[string]interface{})
//	Warn(msg string, err error, fields ...map[string]interface{})
//	Error(msg string, err error, fields ...map[string]interface{})
//	Fatal(msg string, err error, fields ...map[string]interface{})
//
// Basic usage:
//
//	client := logger.NewLoggerClient(logger.Config{Level: logger.Info})
//	client.Info("schema version appended", nil, map[string]interface{}{
//	    "schema_metadata_id": 42,
//	    "version":            3,
//	})
//
// With fx, include logger.FXModule and provide a logger.Config.
package logger

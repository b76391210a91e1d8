// Package log builds the slog loggers used by depobs.
//
// Loggers created here wrap their handler in a SecureHandler, which masks
// credentials before they reach the output:
//   - attributes whose key names a credential (authorization, cookie, token...)
//   - string values that look like bearer/basic credentials or JWTs
//   - sensitive entries inside http.Header and map[string]string values
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("sending request", "headers", req.Header) // Authorization is masked
//	slog.SetDefault(logger)
package log

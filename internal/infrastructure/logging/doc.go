// Package logging wraps log/slog with Stagelight's defaults.
//
// Every component logs through the same Logger: JSON in production,
// text when watching a console during focus, with service and version
// fields on every record. Configured from config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Components take a child logger tagged with their name:
//
//	fadeLog := logger.With("component", "fade")
//	fadeLog.Info("engine started", "interval_ms", 25)
//
// Never log secrets, tokens, or broker passwords. Debug-level logging
// of DMX frames is fine; they carry no sensitive data.
package logging

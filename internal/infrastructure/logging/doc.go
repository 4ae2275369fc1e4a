// Package logging provides structured logging using uber/zap.
//
// Two modes are offered:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components receive a named child logger:
//
//	logger := logging.NewDefault()
//	calcLog := logger.Component("calculation")
//	calcLog.Info("Calculation finished", zap.String("mode", "threading"))
package logging

/*
Package tracing provides request tracing for debugging production issues.

# Overview

Every HTTP request gets a trace ID, taken from a well-formed incoming
X-Trace-ID header or generated. The ID is stored in the request context so
calculation logs can carry it, and is echoed back in the response headers.

Completed spans are handed to a buffered collector that logs them with zap.

# Usage

	tracer := tracing.New("perfcalc", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	// Anywhere downstream
	traceID := tracing.GetTraceID(ctx)

# Trace Format

  - X-Trace-ID: identifier for the entire request flow (trace_<ULID>)
  - X-Span-ID: identifier for the current operation (span_<ULID>)
*/
package tracing

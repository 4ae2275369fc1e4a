// Package calculation runs one measured reduction for a request.
//
// A Service validates the request, selects the execution strategy, wraps
// it in the metrics collector and, when configured, stores the resulting
// record. Process-based runs go through a circuit breaker so that repeated
// spawn failures stop further forking until the breaker recovers.
//
// Example Usage:
//
//	svc := calculation.NewService(calculation.DefaultOptions(), logger).
//		WithStore(store).
//		WithMetrics(metrics)
//	outcome, err := svc.Calculate(ctx, calculation.Request{
//		LowerBound:     1,
//		UpperBound:     1_000_000,
//		ProcessingMode: "threading",
//	})
package calculation

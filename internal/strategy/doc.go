// Package strategy implements the three execution models for the
// reduction: sequential, a bounded goroutine pool, and a pool of child
// processes.
//
// All strategies share one capability:
//
//	Execute(compute.Range) (Result, error)
//
// Both parallel strategies partition with compute.Partition, wait for every
// worker to finish (a join barrier), and only then sum the partials in
// ascending chunk index. Worker completion order never affects the result, so
// repeated runs of one strategy are bit-identical.
//
// Process workers are re-executions of the running binary. Any main (or
// TestMain) that uses the Process strategy must call ServeWorkerIfRequested
// before doing anything else:
//
//	func main() {
//		strategy.ServeWorkerIfRequested()
//		...
//	}
package strategy

// Package compute holds the workload of the service: the reduction
// Σ 1/k² over an integer range and the partitioner that splits a range
// into worker chunks.
//
// Everything here is pure. Reduce has no shared state and may be called
// concurrently on disjoint chunks from goroutines or child processes.
//
// Partitioning:
//
//	total = upper - lower + 1
//	base  = total / workers
//	rem   = total % workers
//
// The first rem chunks get base+1 elements, the rest get base. Chunks are laid
// out contiguously, so their union is the range exactly and no tail element is
// ever dropped when total is not a multiple of workers.
package compute

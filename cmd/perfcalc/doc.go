// Command perfcalc runs one measured calculation from the command line and
// prints its metrics record as JSON.
//
// Usage:
//
//	perfcalc --lower 1 --upper 1000000 --mode threading
//	perfcalc --upper 5000000 --mode all --workers 4 --db ./results.db
package main

/*
Package resilience provides the circuit breaker guarding process spawning.

Process workers are forked per calculation. When the host runs out of
process slots or memory every spawn fails; the breaker turns that into an
immediate ErrCircuitOpen instead of forking again on each request. A
calculation is never retried by the breaker.

# Usage

	breaker := resilience.New("multiprocessing", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		IsFailure: func(err error) bool {
			return errors.Is(err, compute.ErrWorkerSpawn)
		},
	})

	err := breaker.Execute(func() error {
		res, err = s.Execute(r)
		return err
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience

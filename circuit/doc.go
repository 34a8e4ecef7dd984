/*
Package circuit implements the circuit breakers used by the breaker
middleware units.

Two types of breakers are provided: consecutive and failure rate based.
A breaker is owned by a single middleware unit, so the outcome of the
requests of one route never affects the breaker of another route.

# Consecutive Failures

This breaker opens when the chain failed or responded with a >=500 status
code at least N times in a row. When open, the requests are rejected
during the configured timeout. After the timeout, the breaker goes into
half-open state, where it lets M requests through. If any of them fails,
the breaker goes back to open state. If all succeed, it closes again.

# Failure Rate

The rate breaker works similar to the consecutive breaker, but it opens
when the failures reach N out of the last M requests. The sliding window
is not time based, it always tracks the last M outcomes.
*/
package circuit

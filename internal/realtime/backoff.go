package realtime

import (
	"math"
	"math/rand"
	"time"
)

const (
	backoffInitial    = time.Second
	backoffMax        = 30 * time.Second
	backoffMultiplier = 2.0
	backoffJitter     = 0.1
)

var timeAfter = time.After

// nextBackoff calcula la espera antes del reintento n con backoff
// exponencial y jitter de ±10% para evitar reconexiones en manada.
func nextBackoff(attempt int) time.Duration {
	interval := float64(backoffInitial) * math.Pow(backoffMultiplier, float64(attempt))
	if backoffJitter > 0 {
		jitter := interval * backoffJitter
		interval += (rand.Float64()*2 - 1) * jitter
	}
	if interval > float64(backoffMax) {
		interval = float64(backoffMax)
	}
	if interval < 0 {
		interval = float64(backoffInitial)
	}
	return time.Duration(interval)
}

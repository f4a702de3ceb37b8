package utils

import (
	"math/rand"
	"time"
)

// RandomDelay sleeps for a random duration between min and max. A randomized
// pause between requests keeps the request rate polite and irregular.
func RandomDelay(min, max time.Duration) {
	if max <= min {
		time.Sleep(min)
		return
	}
	diff := max - min
	time.Sleep(min + time.Duration(rand.Int63n(int64(diff))))
}

package helpers

import (
	"time"

	"golang.org/x/time/rate"
)

// OnceAMinute runs a function at most once per minute across the process.
var OnceAMinute = onceAMinute()

func onceAMinute() *rate.Sometimes {
	return &rate.Sometimes{
		Interval: time.Minute,
	}
}

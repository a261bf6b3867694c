package diagram

import (
	"strconv"

	"github.com/segmentio/ksuid"
)

// IDGenerator returns a new identifier on every call.
type IDGenerator func() string

// KSUIDGenerator returns ids made of prefix and a KSUID, which orders by
// creation time and carries a random payload.
func KSUIDGenerator(prefix string) IDGenerator {
	return func() string {
		return prefix + ksuid.New().String()
	}
}

// CounterGenerator returns prefix1, prefix2, ... in order.
func CounterGenerator(prefix string) IDGenerator {
	var n int
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}

// Package idgen generates client-side request ids. Booking submissions
// carry one as an idempotency key so a retried request cannot double-book.
package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/sonyflake"
)

var (
	sfOnce sync.Once
	sf     *sonyflake.Sonyflake
)

func generator() *sonyflake.Sonyflake {
	sfOnce.Do(func() {
		// Errors leave sf nil and RequestId falls back to UUIDs
		sf, _ = sonyflake.New(sonyflake.Settings{
			StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			MachineID: func() (uint16, error) { return 1, nil },
		})
	})
	return sf
}

// RequestId returns a unique id for one outbound request
func RequestId() string {
	if g := generator(); g != nil {
		if id, err := g.NextID(); err == nil {
			return fmt.Sprintf("%d", id)
		}
	}
	return uuid.NewString()
}

package mysterybox

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartTokenRefill schedules RefillTokens every interval. The caller shuts the
// returned scheduler down on exit.
func StartTokenRefill(db *gorm.DB, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			n, err := RefillTokens(ctx, db)
			if err != nil {
				log.Printf("[Scheduler] token refill failed: %v", err)
				return
			}
			if n > 0 {
				log.Printf("[Scheduler] refilled a mystery box token for %d user(s)", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule token refill: %w", err)
	}

	sched.Start()
	return sched, nil
}

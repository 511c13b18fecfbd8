package scheduler

import (
	"log"
	"time"

	"wellness-diary/internal/cron"

	"github.com/go-co-op/gocron/v2"
)

// Start runs the scheduler entrypoint once a minute. Reminder matching is
// exact-minute, so anything coarser would miss occurrences; the daily insight
// trigger rides the same tick.
func Start(runner *cron.Runner) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			res, err := runner.Run()
			if err != nil {
				log.Println("scheduler: run failed:", err)
				return
			}
			for _, line := range res.Results {
				log.Println("scheduler:", line)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	return s, nil
}

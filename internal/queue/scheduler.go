package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)
	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs wires the recurring jobs. The guestbook digest runs daily at
// 7 AM UTC so authors get one consolidated mail per day at most.
func (s *Scheduler) RegisterJobs() error {
	payload, err := json.Marshal(GuestbookDigestPayload{})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		"0 7 * * *",
		asynq.NewTask(TypeGuestbookDigest, payload),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	return err
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lexfield/practice-core/internal/log"
)

// Таймаут одного прогона фоновой задачи.
const runTimeout = 5 * time.Minute

// Scheduler владеет набором именованных периодических задач поверх cron.
// Ошибка или паника одного прогона гасится и логируется: упавший прогон
// просто ждёт следующего тика, повторов внутри тика нет.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Add регистрирует задачу с 5-польным cron-расписанием.
func (s *Scheduler) Add(name, spec string, run func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("job panicked", fmt.Errorf("%v", r), "job", name)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if err := run(ctx); err != nil {
			log.Error("job run failed", err, "job", name)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}

	log.Info("job scheduled", "job", name, "spec", spec)
	return nil
}

// Start запускает планировщик.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и дожидается завершения текущих прогонов.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

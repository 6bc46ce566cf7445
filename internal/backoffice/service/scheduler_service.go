package service

import (
	"context"
	"time"

	"golang-invest-backoffice/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService triggers the daily revaluation at a configured wall-clock
// time. The job also stays invokable on demand through the HTTP surface.
type SchedulerService interface {
	Start(ctx context.Context) error
}

// NewSchedulerService creates a scheduler running the revaluation on the
// given cron schedule (standard five-field expression).
func NewSchedulerService(revaluationSvc RevaluationService, log *logger.Logger, schedule string) SchedulerService {
	return &schedulerService{
		revaluationSvc: revaluationSvc,
		log:            log,
		schedule:       schedule,
	}
}

type schedulerService struct {
	revaluationSvc RevaluationService
	log            *logger.Logger
	schedule       string
}

// Start registers the cron entry and blocks until the context is canceled;
// a running revaluation is allowed to finish before Start returns.
func (s *schedulerService) Start(ctx context.Context) error {
	c := cron.New()

	_, err := c.AddFunc(s.schedule, func() {
		result, err := s.revaluationSvc.RunDailyRevaluation(ctx, time.Now())
		if err != nil {
			s.log.ErrorContext(ctx, "Scheduled revaluation failed", logger.ErrorField(err))
			return
		}
		if !result.Success {
			s.log.WarnContext(ctx, "Scheduled revaluation completed with errors",
				logger.IntField("errors", len(result.Errors)))
		}
	})
	if err != nil {
		return err
	}

	s.log.Info("Revaluation scheduler starting", logger.StringField("schedule", s.schedule))
	c.Start()

	<-ctx.Done()
	s.log.Info("Revaluation scheduler stopping")
	<-c.Stop().Done()

	return nil
}

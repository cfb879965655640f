// Package trialscheduler периодически ищет пользователей, у которых завтра
// заканчивается пробный период, и публикует напоминания в пайплайн уведомлений.
package trialscheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/dijital-miras/premium-service/internal/lib/rabbitmq"
	"github.com/dijital-miras/premium-service/internal/lib/sl"
	"github.com/dijital-miras/premium-service/internal/models"
)

// SubscriptionRepository определяет выборку истекающих пробных периодов.
type SubscriptionRepository interface {
	ListTrialsEndingTomorrow(ctx context.Context) ([]*models.TrialReminder, error)
}

// Service планировщик напоминаний об истекающем пробном периоде.
type Service struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo SubscriptionRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Run запускает цикл поиска с заданным интервалом; первый проход — сразу.
func (s *Service) Run(ctx context.Context, channel *amqp.Channel, interval time.Duration) {
	s.runOnce(ctx, channel)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, channel)
		}
	}
}

func (s *Service) runOnce(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting scan for trials ending tomorrow")
	reminders, err := s.repo.ListTrialsEndingTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to list expiring trials", sl.Err(err))
		return
	}
	if len(reminders) == 0 {
		s.log.Info("no expiring trials found")
		return
	}
	s.log.Info("found expiring trials", "count", len(reminders))
	for _, reminder := range reminders {
		err = rabbitmq.PublishMessage(channel, rabbitmq.NotificationsExchange, "trial_expiring", reminder)
		if err != nil {
			s.log.Error("failed to publish reminder", sl.Err(err))
		}
	}
}

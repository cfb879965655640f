// Package notificationsender содержит приложение отправки почтовых уведомлений.
package notificationsender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/dijital-miras/premium-service/internal/config"
	"github.com/dijital-miras/premium-service/internal/lib/rabbitmq"
	"github.com/dijital-miras/premium-service/internal/lib/smtp"
	senderservice "github.com/dijital-miras/premium-service/internal/services/sender"
	"github.com/dijital-miras/premium-service/internal/storage/repository"
)

// App агрегирует соединение с брокером и сервис отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	workers       int
	logger        *slog.Logger
}

// New создает новый экземпляр приложения отправки уведомлений.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.New(db, newTransport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		workers:       cfg.RabbitMQWorkers,
		logger:        logger,
	}, nil
}

// Run подписывается на очереди уведомлений и работает до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "notifications.trial_expiring", a.workers, a.senderService.SendTrialExpiringReminder)
	if err != nil {
		a.logger.Error("failed to start trial_expiring consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, "notifications.reward_granted", a.workers, a.senderService.SendRewardGrantedNotice)
	if err != nil {
		a.logger.Error("failed to start reward_granted consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notification sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}

// Package premium содержит бизнес-логику движка подписки: производные предикаты
// премиум-доступа, запуск пробного периода, оформление тарифа и серию репостов.
package premium

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dijital-miras/premium-service/internal/lib/streak"
	"github.com/dijital-miras/premium-service/internal/metrics"
	"github.com/dijital-miras/premium-service/internal/models"
)

// TrialDays длительность пробного периода в днях.
const TrialDays = 3

// RewardDuration длительность суточного бонуса за серию репостов.
const RewardDuration = 24 * time.Hour

// ErrNoUser операция вызвана без вошедшего пользователя.
var ErrNoUser = errors.New("no signed-in user")

// ErrUnknownPlan идентификатор тарифа отсутствует в каталоге.
var ErrUnknownPlan = errors.New("unknown plan")

// Repository определяет методы для работы с записями подписки в хранилище.
type Repository interface {
	// GetRecord возвращает запись пользователя или nil, если записи нет.
	GetRecord(ctx context.Context, userUID string) (*models.Record, error)
	// OverwriteTrial полностью перезаписывает запись свежим пробным периодом.
	OverwriteTrial(ctx context.Context, userUID string, trialEnd time.Time) (*models.Record, error)
	// MergePlan сливает оформление тарифа, сохраняя незатронутые поля.
	MergePlan(ctx context.Context, userUID, planID string, billing models.Billing) (*models.Record, error)
	// ShareTx атомарно выполняет шаг серии репостов.
	ShareTx(ctx context.Context, userUID string, step func(rec *models.Record) models.ShareUpdate) (*models.Record, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ChangeFeed живая лента изменений записи подписки.
type ChangeFeed interface {
	Publish(ctx context.Context, rec *models.Record) error
	Watch(ctx context.Context, userUID string) (<-chan *models.Record, func(), error)
}

// EventPublisher публикует доменные события в пайплайн уведомлений.
type EventPublisher interface {
	PublishRewardGranted(event models.RewardGranted) error
}

// Service реализует движок подписки поверх хранилища, кеша и ленты изменений.
type Service struct {
	repo   Repository
	cache  Cache
	feed   ChangeFeed
	events EventPublisher
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, feed ChangeFeed, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		feed:   feed,
		events: events,
		log:    log,
	}
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("premium:%s", userUID)
}

// Record возвращает запись подписки пользователя, используя кеш или хранилище.
// nil без ошибки означает отсутствие записи (статус none).
func (s *Service) Record(ctx context.Context, userUID string) (*models.Record, error) {
	if userUID == "" {
		return nil, ErrNoUser
	}

	var cached *models.Record
	found, err := s.cache.Get(cacheKey(userUID), &cached)
	if err != nil {
		s.log.Warn("failed to read record from cache", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	rec, err := s.repo.GetRecord(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		if err := s.cache.Set(cacheKey(userUID), rec, time.Hour); err != nil {
			s.log.Warn("failed to cache record", slog.String("key", cacheKey(userUID)), slog.Any("err", err))
		}
	}
	return rec, nil
}

// Snapshot возвращает производное состояние для клиента. Ошибка чтения не
// пробрасывается: гейт закрывается, пользователь просто не премиум.
func (s *Service) Snapshot(ctx context.Context, userUID string) models.EntitlementSnapshot {
	rec, err := s.Record(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to load subscription record, treating as absent", slog.Any("err", err))
		rec = nil
	}
	now := time.Now()
	return models.EntitlementSnapshot{
		IsPremium:       rec.IsPremiumAt(now),
		DaysLeftInTrial: rec.DaysLeftInTrialAt(now),
		Subscription:    rec,
	}
}

// FeatureLocked сообщает, закрыт ли раздел для пользователя.
// Премиум открывает всё; без премиума открыт только бесплатный список,
// незнакомые идентификаторы разделов считаются закрытыми.
func (s *Service) FeatureLocked(ctx context.Context, userUID, routeID string) bool {
	if s.Snapshot(ctx, userUID).IsPremium {
		return false
	}
	return !models.IsFreeRoute(routeID)
}

// StartTrial запускает пробный период на TrialDays дней, полностью перезаписывая
// прежнюю запись. Повторный вызов перезапускает отсчёт заново.
func (s *Service) StartTrial(ctx context.Context, userUID string) (*models.Record, error) {
	if userUID == "" {
		return nil, ErrNoUser
	}

	trialEnd := time.Now().AddDate(0, 0, TrialDays)
	rec, err := s.repo.OverwriteTrial(ctx, userUID, trialEnd)
	if err != nil {
		return nil, err
	}
	metrics.TrialsStarted.Inc()
	s.log.Info("trial started", slog.String("user_uid", userUID), slog.Time("trial_end", trialEnd))

	s.afterWrite(ctx, rec)
	return rec, nil
}

// SubscribeToPlan оформляет тариф слиянием: серия репостов и прочие незатронутые
// поля сохраняются. Совместимость тарифа и периода оплаты не проверяется —
// каталог отдаёт клиенту только допустимые комбинации.
func (s *Service) SubscribeToPlan(ctx context.Context, userUID, planID string, billing models.Billing) (*models.Record, error) {
	if userUID == "" {
		return nil, ErrNoUser
	}
	if models.FindPlan(planID) == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlan, planID)
	}

	rec, err := s.repo.MergePlan(ctx, userUID, planID, billing)
	if err != nil {
		return nil, err
	}
	metrics.SubscriptionsActivated.WithLabelValues(planID).Inc()
	s.log.Info("plan subscribed", slog.String("user_uid", userUID),
		slog.String("plan", planID), slog.String("billing", string(billing)))

	s.afterWrite(ctx, rec)
	return rec, nil
}

// RegisterShare засчитывает репост текущего календарного дня. Один день — один
// зачёт; серия из streak.RewardThreshold подряд идущих дней конвертируется в
// суточный бонус и обнуляется. Вся мутация выполняется в одной транзакции.
func (s *Service) RegisterShare(ctx context.Context, userUID string) (models.ShareResult, error) {
	if userUID == "" {
		return models.ShareResult{}, ErrNoUser
	}

	now := time.Now()
	var stepResult streak.Result
	rec, err := s.repo.ShareTx(ctx, userUID, func(rec *models.Record) models.ShareUpdate {
		stepResult = streak.Step(rec.LastShareDate, rec.ShareStreak, now)
		if stepResult.AlreadyCounted {
			return models.ShareUpdate{Skip: true}
		}
		return models.ShareUpdate{
			LastShareDate: now.Format(streak.DateLayout),
			ShareStreak:   stepResult.Streak,
			Rewarded:      stepResult.Rewarded,
			RewardEnd:     now.Add(RewardDuration),
		}
	})
	if err != nil {
		return models.ShareResult{}, err
	}

	if stepResult.AlreadyCounted {
		return models.ShareResult{Outcome: models.ShareAlreadyCounted, Streak: rec.ShareStreak}, nil
	}

	metrics.SharesRecorded.Inc()
	s.afterWrite(ctx, rec)

	if !stepResult.Rewarded {
		s.log.Info("share streak progressed", slog.String("user_uid", userUID), slog.Int("streak", rec.ShareStreak))
		return models.ShareResult{Outcome: models.ShareProgress, Streak: rec.ShareStreak}, nil
	}

	metrics.RewardsGranted.Inc()
	s.log.Info("share streak reward granted", slog.String("user_uid", userUID))
	if rec.RewardEnd != nil {
		event := models.RewardGranted{UserUID: userUID, RewardEnd: *rec.RewardEnd}
		if err := s.events.PublishRewardGranted(event); err != nil {
			s.log.Warn("failed to publish reward event", slog.Any("err", err))
		}
	}
	return models.ShareResult{Outcome: models.ShareRewarded, Streak: 0, RewardEnd: rec.RewardEnd}, nil
}

// Watch отдаёт живую ленту изменений записи пользователя. На одного вошедшего
// пользователя держится одна подписка; функция остановки обязана быть вызвана
// при смене пользователя или выходе.
func (s *Service) Watch(ctx context.Context, userUID string) (<-chan *models.Record, func(), error) {
	if userUID == "" {
		return nil, nil, ErrNoUser
	}
	return s.feed.Watch(ctx, userUID)
}

// afterWrite обновляет кеш и рассылает зафиксированную запись наблюдателям.
// Ошибки здесь не фатальны: сама запись уже зафиксирована в хранилище.
func (s *Service) afterWrite(ctx context.Context, rec *models.Record) {
	if err := s.cache.Set(cacheKey(rec.UserUID), rec, time.Hour); err != nil {
		s.log.Warn("failed to cache record", slog.Any("err", err))
	}
	if err := s.feed.Publish(ctx, rec); err != nil {
		s.log.Warn("failed to publish record change", slog.Any("err", err))
	}
}

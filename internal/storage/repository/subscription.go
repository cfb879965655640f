package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dijital-miras/premium-service/internal/models"
)

const recordColumns = `user_uid, status, trial_end, plan, billing, reward_end,
			      COALESCE(last_share_date, ''), share_streak, started_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord нормализует строку базы в доменную запись: NULL-границы становятся
// nil и никогда не превращаются в нулевое время.
func scanRecord(row rowScanner) (*models.Record, error) {
	var rec models.Record
	var trialEnd, rewardEnd sql.NullTime
	var plan, billing sql.NullString
	if err := row.Scan(&rec.UserUID, &rec.Status, &trialEnd, &plan, &billing,
		&rewardEnd, &rec.LastShareDate, &rec.ShareStreak, &rec.StartedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if trialEnd.Valid {
		rec.TrialEnd = &trialEnd.Time
	}
	if rewardEnd.Valid {
		rec.RewardEnd = &rewardEnd.Time
	}
	if plan.Valid {
		rec.Plan = &plan.String
	}
	if billing.Valid {
		b := models.Billing(billing.String)
		rec.Billing = &b
	}
	return &rec, nil
}

// GetRecord возвращает запись подписки пользователя или nil, если записи нет.
// Отсутствие строки — штатное состояние (статус none), а не ошибка.
func (s *Storage) GetRecord(ctx context.Context, userUID string) (*models.Record, error) {
	const op = "storage.GetRecord"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + recordColumns + `
			  FROM subscriptions WHERE user_uid = $1`
	rec, err := scanRecord(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// OverwriteTrial полностью перезаписывает запись подписки на свежий пробный период.
// Это именно перезапись, а не слияние: тариф, бонус и серия репостов обнуляются.
func (s *Storage) OverwriteTrial(ctx context.Context, userUID string, trialEnd time.Time) (*models.Record, error) {
	const op = "storage.OverwriteTrial"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, status, trial_end, plan, billing,
			      reward_end, last_share_date, share_streak, started_at, updated_at)
			  VALUES ($1, 'trial', $2, NULL, NULL, NULL, NULL, 0, now(), now())
			  ON CONFLICT (user_uid) DO UPDATE
			  SET status = 'trial', trial_end = EXCLUDED.trial_end, plan = NULL,
			      billing = NULL, reward_end = NULL, last_share_date = NULL,
			      share_streak = 0, started_at = now(), updated_at = now()
			  RETURNING ` + recordColumns
	rec, err := scanRecord(s.DB.QueryRowContext(ctx, query, userUID, trialEnd))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// MergePlan сливает оформление тарифа в существующую запись: меняются только
// статус, тариф, период оплаты и started_at, остальные колонки (включая серию
// репостов) сохраняются. При отсутствии записи создаётся новая.
func (s *Storage) MergePlan(ctx context.Context, userUID, planID string, billing models.Billing) (*models.Record, error) {
	const op = "storage.MergePlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, status, trial_end, plan, billing,
			      reward_end, last_share_date, share_streak, started_at, updated_at)
			  VALUES ($1, 'active', NULL, $2, $3, NULL, NULL, 0, now(), now())
			  ON CONFLICT (user_uid) DO UPDATE
			  SET status = 'active', plan = EXCLUDED.plan, billing = EXCLUDED.billing,
			      started_at = now(), updated_at = now()
			  RETURNING ` + recordColumns
	rec, err := scanRecord(s.DB.QueryRowContext(ctx, query, userUID, planID, string(billing)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// ShareTx выполняет атомарный read-modify-write серии репостов: читает запись
// под блокировкой SELECT ... FOR UPDATE, передает её в step и записывает
// результат в той же транзакции. Две вкладки одного пользователя не смогут
// засчитать один день дважды.
func (s *Storage) ShareTx(ctx context.Context, userUID string,
	step func(rec *models.Record) models.ShareUpdate) (*models.Record, error) {
	const op = "storage.ShareTx"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Запись создаётся лениво: если её ещё нет, серия начинается с нулевых значений.
	query := `INSERT INTO subscriptions (user_uid, status, share_streak, started_at, updated_at)
			  VALUES ($1, 'none', 0, now(), now())
			  ON CONFLICT (user_uid) DO NOTHING`
	if _, err = tx.ExecContext(ctx, query, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := scanRecord(tx.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM subscriptions WHERE user_uid = $1 FOR UPDATE`, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	update := step(rec)
	if update.Skip {
		return rec, tx.Commit()
	}

	if update.Rewarded {
		rec, err = scanRecord(tx.QueryRowContext(ctx,
			`UPDATE subscriptions
			 SET status = 'rewarded', reward_end = $2, share_streak = 0,
			     last_share_date = $3, updated_at = now()
			 WHERE user_uid = $1
			 RETURNING `+recordColumns,
			userUID, update.RewardEnd, update.LastShareDate))
	} else {
		rec, err = scanRecord(tx.QueryRowContext(ctx,
			`UPDATE subscriptions
			 SET last_share_date = $2, share_streak = $3, updated_at = now()
			 WHERE user_uid = $1
			 RETURNING `+recordColumns,
			userUID, update.LastShareDate, update.ShareStreak))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// ListTrialsEndingTomorrow возвращает пользователей, чей пробный период
// заканчивается завтра. Используется планировщиком напоминаний.
func (s *Storage) ListTrialsEndingTomorrow(ctx context.Context) ([]*models.TrialReminder, error) {
	const op = "storage.ListTrialsEndingTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email, u.username, s.trial_end
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  WHERE s.status = 'trial'
			    AND s.trial_end::DATE = CURRENT_DATE + 1`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TrialReminder
	for rows.Next() {
		var r models.TrialReminder
		if err = rows.Scan(&r.Email, &r.Username, &r.TrialEnd); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Package models содержит доменные структуры сервиса: запись подписки пользователя,
// каталог тарифов, таблицу бесплатных разделов и полезные нагрузки уведомлений.
package models

import (
	"math"
	"time"
)

// Status статус записи подписки. Отсутствие записи в хранилище означает StatusNone.
type Status string

const (
	// StatusNone запись отсутствует, премиум-доступа нет.
	StatusNone Status = "none"
	// StatusTrial пробный период, ограничен полем TrialEnd.
	StatusTrial Status = "trial"
	// StatusActive оплаченная подписка. Не истекает сама по себе: завершение оплаты
	// обрабатывает внешняя биллинговая система, а не этот сервис.
	StatusActive Status = "active"
	// StatusRewarded суточный бонус за серию репостов, ограничен полем RewardEnd.
	StatusRewarded Status = "rewarded"
)

// Billing период оплаты тарифа.
type Billing string

const (
	// BillingMonthly помесячная оплата.
	BillingMonthly Billing = "monthly"
	// BillingAnnual годовая оплата.
	BillingAnnual Billing = "annual"
)

// Record запись подписки пользователя, одна на uid.
//
// Временные границы хранятся указателями: NULL из базы превращается в nil, и все
// предикаты трактуют отсутствующую границу как отсутствие доступа. Строка с
// status = trial без TrialEnd — это битая запись, а не премиум.
type Record struct {
	UserUID       string     `json:"user_uid"`
	Status        Status     `json:"status"`
	TrialEnd      *time.Time `json:"trial_end,omitempty"`
	Plan          *string    `json:"plan,omitempty"`
	Billing       *Billing   `json:"billing,omitempty"`
	RewardEnd     *time.Time `json:"reward_end,omitempty"`
	LastShareDate string     `json:"last_share_date,omitempty"` // YYYY-MM-DD
	ShareStreak   int        `json:"share_streak"`
	StartedAt     time.Time  `json:"started_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsPremiumAt сообщает, действует ли премиум-доступ в момент now.
//
// Чистая функция: значение меняется со временем даже без мутации записи,
// поэтому вызывающие вычисляют её заново при каждом обращении, а не кешируют.
func (r *Record) IsPremiumAt(now time.Time) bool {
	if r == nil {
		return false
	}
	switch r.Status {
	case StatusActive:
		return true
	case StatusTrial:
		return r.TrialEnd != nil && now.Before(*r.TrialEnd)
	case StatusRewarded:
		return r.RewardEnd != nil && now.Before(*r.RewardEnd)
	}
	return false
}

// DaysLeftInTrialAt возвращает число оставшихся дней пробного периода,
// округлённое вверх и не меньше нуля. Для любых статусов кроме trial — ноль.
func (r *Record) DaysLeftInTrialAt(now time.Time) int {
	if r == nil || r.Status != StatusTrial || r.TrialEnd == nil {
		return 0
	}
	diff := r.TrialEnd.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// ShareOutcome исход регистрации репоста.
type ShareOutcome string

const (
	// ShareAlreadyCounted сегодняшний репост уже был засчитан, запись не менялась.
	ShareAlreadyCounted ShareOutcome = "already_counted"
	// ShareProgress серия продвинулась, бонуса пока нет.
	ShareProgress ShareOutcome = "progress"
	// ShareRewarded серия достигла порога и потрачена на суточный бонус.
	ShareRewarded ShareOutcome = "rewarded"
)

// ShareResult результат операции регистрации репоста для вызывающей стороны.
type ShareResult struct {
	Outcome   ShareOutcome `json:"outcome"`
	Streak    int          `json:"streak"`
	RewardEnd *time.Time   `json:"reward_end,omitempty"`
}

// ShareUpdate результат шага серии, который хранилище должно зафиксировать
// в той же транзакции, в которой читалась запись.
type ShareUpdate struct {
	Skip          bool // Сегодня уже засчитано, запись не менять
	LastShareDate string
	ShareStreak   int
	Rewarded      bool
	RewardEnd     time.Time
}

// EntitlementSnapshot производное состояние для клиента: премиум-флаг,
// остаток пробного периода и сама запись (или null, если её нет).
type EntitlementSnapshot struct {
	IsPremium       bool    `json:"is_premium"`
	DaysLeftInTrial int     `json:"days_left_in_trial"`
	Subscription    *Record `json:"subscription"`
}

// TrialReminder полезная нагрузка уведомления об истекающем пробном периоде.
type TrialReminder struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	TrialEnd time.Time `json:"trial_end"`
}

// RewardGranted полезная нагрузка уведомления о выданном бонусе.
type RewardGranted struct {
	UserUID   string    `json:"user_uid"`
	RewardEnd time.Time `json:"reward_end"`
}

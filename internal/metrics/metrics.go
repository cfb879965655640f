// Package metrics объявляет счётчики prometheus для операций движка подписки.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TrialsStarted количество запусков пробного периода.
	TrialsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "premium_trials_started_total",
		Help: "Number of trial periods started.",
	})

	// SubscriptionsActivated количество оформлений тарифа, с меткой тарифа.
	SubscriptionsActivated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "premium_subscriptions_activated_total",
		Help: "Number of plan subscriptions activated.",
	}, []string{"plan"})

	// SharesRecorded количество засчитанных репостов.
	SharesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "premium_shares_recorded_total",
		Help: "Number of share actions credited to a streak.",
	})

	// RewardsGranted количество выданных суточных бонусов.
	RewardsGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "premium_rewards_granted_total",
		Help: "Number of streak rewards granted.",
	})
)

// Package streak содержит чистую арифметику ежедневной серии "поделился — получил бонус".
//
// Серия засчитывается не более одного раза в календарный день. Подряд идущие дни
// увеличивают счётчик, пропуск дня сбрасывает его. При достижении порога серия
// конвертируется в суточный бонус и обнуляется.
package streak

import "time"

// DateLayout формат календарной даты, в котором серия хранится в базе.
const DateLayout = "2006-01-02"

// RewardThreshold длина серии, при которой выдается бонус.
const RewardThreshold = 3

// Result результат одного шага серии.
type Result struct {
	Streak         int  // Новое значение счётчика (0, если серия конвертирована в бонус)
	AlreadyCounted bool // Сегодняшний день уже был засчитан, запись менять не нужно
	Rewarded       bool // Порог достигнут, серия потрачена на бонус
}

// Step выполняет один шаг серии для календарного дня today.
//
// lastShareDate — последняя засчитанная дата в формате DateLayout (пустая строка,
// если пользователь ещё ни разу не делился), current — текущее значение счётчика.
func Step(lastShareDate string, current int, today time.Time) Result {
	todayStr := today.Format(DateLayout)
	if lastShareDate == todayStr {
		return Result{Streak: current, AlreadyCounted: true}
	}

	yesterdayStr := today.AddDate(0, 0, -1).Format(DateLayout)
	next := 1
	if lastShareDate == yesterdayStr {
		next = current + 1
	}

	if next >= RewardThreshold {
		// Серия потрачена на бонус целиком, счётчик начинается заново.
		return Result{Streak: 0, Rewarded: true}
	}
	return Result{Streak: next}
}

package models

// PlanDefinition статическое описание тарифа. Каталог объявлен один раз
// и не хранится в базе: это продуктовая конфигурация, а не данные пользователя.
type PlanDefinition struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MonthlyPrice float64  `json:"monthly_price"`
	AnnualPrice  *float64 `json:"annual_price,omitempty"`
	Currency     string   `json:"currency"`
	Features     []string `json:"features"`
	HasAnnual    bool     `json:"has_annual"`
	Popular      bool     `json:"popular"`
}

var basicAnnual = 36.0

// Plans каталог тарифов продукта.
var Plans = []PlanDefinition{
	{
		ID:           "basic",
		Name:         "Temel Plan",
		MonthlyPrice: 2.99,
		AnnualPrice:  &basicAnnual,
		Currency:     "$",
		Features:     []string{"Tüm modüllere erişim", "PDF dışa aktarma", "Sınırsız kayıt", "E-posta desteği"},
		HasAnnual:    true,
		Popular:      true,
	},
	{
		ID:           "pro",
		Name:         "Pro Plan",
		MonthlyPrice: 4.99,
		AnnualPrice:  nil,
		Currency:     "$",
		Features:     []string{"Tüm Temel Plan özellikleri", "Öncelikli destek", "Gelişmiş raporlama", "Aile hesabı (yakında)"},
		HasAnnual:    false,
		Popular:      false,
	},
}

// FindPlan возвращает тариф по идентификатору или nil, если такого тарифа нет.
func FindPlan(id string) *PlanDefinition {
	for i := range Plans {
		if Plans[i].ID == id {
			return &Plans[i]
		}
	}
	return nil
}

package models

// freeRoutes разделы приложения, доступные без премиума.
// Любой идентификатор вне этого списка считается закрытым — в том числе
// незарегистрированные и опечатанные, чтобы гейт закрывался, а не открывался.
var freeRoutes = map[string]struct{}{
	"/dashboard":         {},
	"/vasiyet":           {},
	"/borclar":           {},
	"/helallik":          {},
	"/hayir-vasiyetleri": {},
	"/ilham":             {},
	"/profil":            {},
	"/gizlilik":          {},
	"/onboarding":        {},
}

// IsFreeRoute сообщает, входит ли раздел в бесплатный список.
func IsFreeRoute(routeID string) bool {
	_, ok := freeRoutes[routeID]
	return ok
}

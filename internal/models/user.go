package models

// User учетная запись пользователя.
type User struct {
	UUID         string `json:"uid"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

package models

import "strings"

// Роли пользователей.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// MainAdminEmail - учётная запись администратора, которую нельзя удалить.
const MainAdminEmail = "admin@j9.app"

// User описывает участника каталога. Идентичность - email.
type User struct {
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Role  string `db:"role" json:"role"`
}

// IsAdmin сообщает, есть ли у пользователя права администратора.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SameEmail сравнивает адреса без учёта регистра.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// DefaultUsers - начальный набор пользователей пустого каталога.
func DefaultUsers() []User {
	return []User{
		{Email: MainAdminEmail, Name: "ادمین", Role: RoleAdmin},
		{Email: "user1@j9.app", Name: "کاربر اول", Role: RoleUser},
		{Email: "user2@j9.app", Name: "کاربر دوم", Role: RoleUser},
	}
}

// UserDirectory - документ пользователей вместе с текущим пользователем.
type UserDirectory struct {
	Users            []User `json:"users"`
	CurrentUserEmail string `json:"currentUserEmail,omitempty"`
}

// Package validation проверяет пользовательский ввод до изменения состояния.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUserNameLength     = 1
	MaxUserNameLength     = 100
	MaxTagLength          = 64
	MinPlaylistNameLength = 1
	MaxPlaylistNameLength = 120
	MaxSearchQueryLength  = 500
	MaxFolderNameLength   = 255
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	localPart, domainPart, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domainPart, "@") {
		return fmt.Errorf("некорректный формат email")
	}

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateUserName проверяет отображаемое имя пользователя. Допускается любой алфавит.
func ValidateUserName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}
	return ValidateLength("имя пользователя", name, MinUserNameLength, MaxUserNameLength)
}

// ValidateTag проверяет тег: без управляющих символов и не длиннее MaxTagLength.
func ValidateTag(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("тег не может быть пустым")
	}
	if err := ValidateLength("тег", tag, 1, MaxTagLength); err != nil {
		return err
	}
	if strings.IndexFunc(tag, unicode.IsControl) >= 0 {
		return fmt.Errorf("тег содержит управляющие символы")
	}
	return nil
}

// ValidatePlaylistName проверяет название плейлиста.
func ValidatePlaylistName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("название плейлиста обязательно")
	}
	return ValidateLength("название плейлиста", name, MinPlaylistNameLength, MaxPlaylistNameLength)
}

// ValidateFolderName проверяет имя папки-источника: один сегмент пути.
func ValidateFolderName(name string) error {
	if err := ValidateNonEmpty("имя папки", name); err != nil {
		return err
	}
	if err := ValidateLength("имя папки", name, 1, MaxFolderNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("имя папки не должно содержать разделителей пути")
	}
	return nil
}

// SanitizeSearchQuery обрезает запрос поиска до допустимой длины.
func SanitizeSearchQuery(q string) string {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) <= MaxSearchQueryLength {
		return q
	}
	return string([]rune(q)[:MaxSearchQueryLength])
}

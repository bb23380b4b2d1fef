package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound              ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized          ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden             ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest            ErrorCode = "BAD_REQUEST"
	ErrCodeConflict              ErrorCode = "CONFLICT"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation            ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError         ErrorCode = "DATABASE_ERROR"
	ErrCodePathInfoUnavailable   ErrorCode = "PATH_INFO_UNAVAILABLE"
	ErrCodeDuplicateSourceFolder ErrorCode = "DUPLICATE_SOURCE_FOLDER"
	ErrCodePermissionDenied      ErrorCode = "PERMISSION_DENIED"
	ErrCodeNameConflict          ErrorCode = "NAME_CONFLICT"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, чтобы errors.Is работал с сентинелами
// даже когда сообщение уточнено через Newf.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Newf создаёт ошибку с форматированным сообщением.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodePathInfoUnavailable:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeDuplicateSourceFolder, ErrCodeNameConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или пустую строку для сторонних ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// StatusOf возвращает HTTP статус для ошибки (500 для неизвестных).
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsPermissionDenied(err error) bool {
	return CodeOf(err) == ErrCodePermissionDenied
}

func IsNameConflict(err error) bool {
	return CodeOf(err) == ErrCodeNameConflict
}

var (
	ErrPathInfoUnavailable   = New(ErrCodePathInfoUnavailable, "источник не предоставляет информацию о путях файлов")
	ErrDuplicateSourceFolder = New(ErrCodeDuplicateSourceFolder, "папка уже добавлена")
	ErrPermissionDenied      = New(ErrCodePermissionDenied, "недостаточно прав для изменения")
	ErrNameConflict          = New(ErrCodeNameConflict, "имя уже занято")
	ErrShotNotFound          = New(ErrCodeNotFound, "шот не найден")
	ErrPlaylistNotFound      = New(ErrCodeNotFound, "плейлист не найден")
	ErrFolderNotFound        = New(ErrCodeNotFound, "папка не найдена")
	ErrUserNotFound          = New(ErrCodeNotFound, "пользователь не найден")
	ErrUnauthorized          = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden             = New(ErrCodeForbidden, "недостаточно прав")
)

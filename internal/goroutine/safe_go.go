// Package goroutine запускает фоновые задачи с перехватом panic.
package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shotboard/internal/logger"
)

// Logger интерфейс для логирования ошибок
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создает новый обработчик. nil означает общий логгер сервиса.
func NewRecoveryHandler(l Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: l}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(name string, fn func()) {
	go func() {
		defer rh.handlePanic(name)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer rh.handlePanic(name)
		fn(ctx)
	}()
}

// Run выполняет fn в текущей горутине, превращая panic в запись лога.
func (rh *RecoveryHandler) Run(name string, fn func()) {
	defer rh.handlePanic(name)
	fn()
}

func (rh *RecoveryHandler) handlePanic(name string) {
	r := recover()
	if r == nil {
		return
	}
	fields := logrus.Fields{"task": name, "panic": r, "stack": string(debug.Stack())}
	if rh.logger != nil {
		rh.logger.WithFields(fields).Error("goroutine: panic перехвачен")
		return
	}
	logger.Entry(fields).Error("goroutine: panic перехвачен")
}

// DefaultRecoveryHandler - глобальный обработчик, пишущий в общий логгер
var DefaultRecoveryHandler = NewRecoveryHandler(nil)

// SafeGo - упрощенная функция для запуска безопасной горутины
func SafeGo(name string, fn func()) {
	DefaultRecoveryHandler.SafeGo(name, fn)
}

// SafeGoWithContext - упрощенная функция для запуска безопасной горутины с контекстом
func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, name, fn)
}

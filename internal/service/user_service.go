package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/repository"
	"github.com/ignatzorin/shotboard/internal/validation"
	"github.com/ignatzorin/shotboard/internal/ws"
)

// UserService ведёт справочник пользователей.
type UserService struct {
	mu     sync.RWMutex
	dir    models.UserDirectory
	users  UserRepository
	state  StateRepository
	events Broadcaster
}

// NewUserService создаёт сервис пользователей.
func NewUserService(users UserRepository, state StateRepository, events Broadcaster) *UserService {
	return &UserService{users: users, state: state, events: orNop(events)}
}

// Load читает справочник; пустой справочник заполняется пользователями по умолчанию.
func (s *UserService) Load(ctx context.Context) error {
	list, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	var current string
	if _, err := s.state.Get(ctx, repository.KeyCurrentUser, &current); err != nil {
		return err
	}

	seeded := false
	if len(list) == 0 {
		list = models.DefaultUsers()
		seeded = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir = normalizeDirectory(models.UserDirectory{Users: list, CurrentUserEmail: current})

	if seeded {
		logger.Entry(logrus.Fields{"users": len(list)}).Info("users: справочник заполнен пользователями по умолчанию")
		return s.persistLocked(ctx)
	}
	return nil
}

// Directory возвращает копию справочника.
func (s *UserService) Directory() models.UserDirectory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.UserDirectory{
		Users:            append([]models.User{}, s.dir.Users...),
		CurrentUserEmail: s.dir.CurrentUserEmail,
	}
}

// Get ищет пользователя по email без учёта регистра.
func (s *UserService) Get(email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.dir.Users {
		if models.SameEmail(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, apperror.ErrUserNotFound
}

// Add добавляет пользователя. Совпадение email без учёта регистра - конфликт имени.
func (s *UserService) Add(ctx context.Context, actor models.User, user models.User) (models.User, error) {
	if !actor.IsAdmin() {
		return models.User{}, apperror.ErrForbidden
	}
	user.Email = strings.TrimSpace(user.Email)
	user.Name = strings.TrimSpace(user.Name)
	if err := validation.ValidateEmail(user.Email); err != nil {
		return models.User{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateUserName(user.Name); err != nil {
		return models.User{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if user.Role != models.RoleAdmin {
		user.Role = models.RoleUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.dir.Users {
		if models.SameEmail(u.Email, user.Email) {
			return models.User{}, apperror.Newf(apperror.ErrCodeNameConflict, "пользователь с email %s уже существует", user.Email)
		}
	}

	prev := s.dir
	s.dir.Users = append(append([]models.User{}, s.dir.Users...), user)
	if err := s.persistLocked(ctx); err != nil {
		s.dir = prev
		return models.User{}, err
	}
	return user, nil
}

// Remove удаляет пользователя. Главного администратора удалить нельзя.
func (s *UserService) Remove(ctx context.Context, actor models.User, email string) error {
	if !actor.IsAdmin() {
		return apperror.ErrForbidden
	}
	if models.SameEmail(email, models.MainAdminEmail) {
		return apperror.New(apperror.ErrCodeForbidden, "нельзя удалить главного администратора")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.User, 0, len(s.dir.Users))
	for _, u := range s.dir.Users {
		if !models.SameEmail(u.Email, email) {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(s.dir.Users) {
		return apperror.ErrUserNotFound
	}

	prev := s.dir
	s.dir = normalizeDirectory(models.UserDirectory{Users: kept, CurrentUserEmail: s.dir.CurrentUserEmail})
	if err := s.persistLocked(ctx); err != nil {
		s.dir = prev
		return err
	}
	return nil
}

// SetCurrent запоминает текущего пользователя.
func (s *UserService) SetCurrent(ctx context.Context, email string) (models.User, error) {
	u, err := s.Get(email)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir.CurrentUserEmail = u.Email
	if err := s.state.Put(ctx, repository.KeyCurrentUser, u.Email); err != nil {
		return models.User{}, fmt.Errorf("users: сохранение текущего пользователя: %w", err)
	}
	return u, nil
}

// Replace заменяет справочник целиком.
func (s *UserService) Replace(ctx context.Context, dir models.UserDirectory) (models.UserDirectory, error) {
	for _, u := range dir.Users {
		if err := validation.ValidateEmail(u.Email); err != nil {
			return models.UserDirectory{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.dir
	s.dir = normalizeDirectory(dir)
	if err := s.persistLocked(ctx); err != nil {
		s.dir = prev
		return models.UserDirectory{}, err
	}
	return s.dir, nil
}

func (s *UserService) persistLocked(ctx context.Context) error {
	if err := s.users.Replace(ctx, s.dir.Users); err != nil {
		return err
	}
	if err := s.state.Put(ctx, repository.KeyCurrentUser, s.dir.CurrentUserEmail); err != nil {
		return err
	}
	_ = s.events.Broadcast(ws.EventUsersUpdated, s.dir)
	return nil
}

// normalizeDirectory убирает дубликаты email, гарантирует наличие главного
// администратора и валидного текущего пользователя.
func normalizeDirectory(dir models.UserDirectory) models.UserDirectory {
	users := make([]models.User, 0, len(dir.Users)+1)
	hasAdmin := false
	for _, u := range dir.Users {
		dup := false
		for _, seen := range users {
			if models.SameEmail(seen.Email, u.Email) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		if models.SameEmail(u.Email, models.MainAdminEmail) {
			u.Role = models.RoleAdmin
			hasAdmin = true
		}
		users = append(users, u)
	}
	if !hasAdmin {
		users = append([]models.User{models.DefaultUsers()[0]}, users...)
	}

	current := ""
	for _, u := range users {
		if models.SameEmail(u.Email, dir.CurrentUserEmail) {
			current = u.Email
			break
		}
	}
	if current == "" {
		current = users[0].Email
	}
	return models.UserDirectory{Users: users, CurrentUserEmail: current}
}

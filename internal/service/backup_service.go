package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
)

// BackupService выгружает и восстанавливает пользовательские данные каталога.
type BackupService struct {
	catalog *CatalogService
	users   *UserService
	dir     string
	now     func() time.Time
}

// NewBackupService создаёт сервис резервных копий; dir - каталог для файлов копий.
func NewBackupService(catalog *CatalogService, users *UserService, dir string) *BackupService {
	return &BackupService{catalog: catalog, users: users, dir: dir, now: time.Now}
}

// Export собирает резервную копию из текущего состояния.
func (s *BackupService) Export() models.Backup {
	st := s.catalog.Snapshot()
	return models.Backup{
		Playlists:     st.Playlists.Clone(),
		Tags:          st.Tags.Clone(),
		AllGlobalTags: append([]string{}, st.GlobalTags...),
		ShotCovers:    st.Covers.Clone(),
		Users:         s.users.Directory().Users,
	}
}

// Restore заменяет все документы содержимым копии. Отсутствующие разделы
// копии заменяются пустыми документами; пустой список пользователей не трогает справочник.
func (s *BackupService) Restore(ctx context.Context, actor models.User, b models.Backup) error {
	if !actor.IsAdmin() {
		return apperror.ErrForbidden
	}

	if b.Playlists == nil {
		b.Playlists = models.Playlists{}
	}
	if _, err := s.catalog.ReplacePlaylists(ctx, b.Playlists); err != nil {
		return err
	}
	if _, err := s.catalog.ReplaceTags(ctx, b.Tags); err != nil {
		return err
	}
	if _, err := s.catalog.ReplaceGlobalTags(ctx, b.AllGlobalTags); err != nil {
		return err
	}

	settings := s.catalog.Settings()
	settings.ShotCovers = b.ShotCovers
	if _, err := s.catalog.ReplaceSettings(ctx, settings); err != nil {
		return err
	}

	if len(b.Users) > 0 {
		dir := s.users.Directory()
		dir.Users = b.Users
		if _, err := s.users.Replace(ctx, dir); err != nil {
			return err
		}
	}

	logger.Entry(logrus.Fields{
		"user":      actor.Email,
		"playlists": len(b.Playlists),
		"tags":      len(b.Tags),
		"users":     len(b.Users),
	}).Info("backup: копия восстановлена")
	return nil
}

// DecodeBackup разбирает JSON резервной копии.
func DecodeBackup(raw []byte) (models.Backup, error) {
	var b models.Backup
	if err := json.Unmarshal(raw, &b); err != nil {
		return models.Backup{}, apperror.Wrap(err, apperror.ErrCodeValidation, "некорректный файл резервной копии")
	}
	return b, nil
}

// WriteFile атомарно записывает копию в файл.
func (s *BackupService) WriteFile(path string) error {
	raw, err := json.MarshalIndent(s.Export(), "", "  ")
	if err != nil {
		return fmt.Errorf("backup: кодирование: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("backup: создание каталога: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("backup: запись %s: %w", path, err)
	}
	return nil
}

// Snapshot пишет копию в каталог резервных копий с меткой времени в имени.
func (s *BackupService) Snapshot() (string, error) {
	if s.dir == "" {
		return "", apperror.New(apperror.ErrCodeBadRequest, "каталог резервных копий не настроен")
	}
	name := fmt.Sprintf("shotboard-%s.json", s.now().UTC().Format("20060102-150405"))
	path := filepath.Join(s.dir, name)
	if err := s.WriteFile(path); err != nil {
		return "", err
	}
	logger.Entry(logrus.Fields{"path": path}).Info("backup: копия записана")
	return path, nil
}

// Package service содержит прикладную логику каталога поверх репозиториев и хранилища.
package service

import (
	"context"
	"io"

	"github.com/ignatzorin/shotboard/internal/catalog"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/source"
)

// UserRepository описывает документ пользователей.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	Replace(ctx context.Context, users []models.User) error
}

// PlaylistRepository описывает документ плейлистов.
type PlaylistRepository interface {
	List(ctx context.Context) (models.Playlists, error)
	Replace(ctx context.Context, playlists models.Playlists) error
}

// TagRepository описывает документ тегов шотов.
type TagRepository interface {
	Get(ctx context.Context) (models.Tags, error)
	Replace(ctx context.Context, tags models.Tags) error
}

// DirectoryRepository описывает список папок-источников.
type DirectoryRepository interface {
	List(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, names []string) error
}

// StateRepository хранит одиночные документы по ключу.
type StateRepository interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Put(ctx context.Context, key string, value any) error
}

// FolderStorage хранит файлы папок-источников.
type FolderStorage interface {
	Save(ctx context.Context, relPath string, r io.Reader) (source.DirFile, int64, error)
	Scan(folder string) ([]catalog.FileDescriptor, error)
	Folders() ([]string, error)
	RemoveFolder(ctx context.Context, folder string) error
}

// Broadcaster рассылает события изменений.
type Broadcaster interface {
	Broadcast(event string, data any) error
}

// nopBroadcaster используется, когда рассылка не подключена.
type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, any) error { return nil }

func orNop(b Broadcaster) Broadcaster {
	if b == nil {
		return nopBroadcaster{}
	}
	return b
}

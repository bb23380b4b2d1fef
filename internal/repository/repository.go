// Package repository хранит документы каталога: замена целиком, последняя запись побеждает.
package repository

import "github.com/jmoiron/sqlx"

// Repositories объединяет репозитории одной базы.
type Repositories struct {
	Users       *UserRepository
	Playlists   *PlaylistRepository
	Tags        *TagRepository
	Directories *DirectoryRepository
	State       *StateRepository
}

// New создаёт все репозитории поверх одного соединения.
func New(db *sqlx.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(db),
		Playlists:   NewPlaylistRepository(db),
		Tags:        NewTagRepository(db),
		Directories: NewDirectoryRepository(db),
		State:       NewStateRepository(db),
	}
}

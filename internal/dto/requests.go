package dto

// CreateSessionRequest - вход под пользователем справочника.
type CreateSessionRequest struct {
	Email string `json:"email" binding:"required"`
}

// CreateUserRequest - добавление пользователя.
type CreateUserRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role"`
}

// ScanFolderRequest - импорт каталога, доступного серверу.
type ScanFolderRequest struct {
	Path string `json:"path" binding:"required"`
	Name string `json:"name"`
}

// SetCoverRequest - выбор обложки шота.
type SetCoverRequest struct {
	ShotID   string `json:"shotId" binding:"required"`
	FileName string `json:"fileName" binding:"required"`
}

// ShotTagRequest - тег одного шота.
type ShotTagRequest struct {
	ShotID string `json:"shotId" binding:"required"`
	Tag    string `json:"tag" binding:"required"`
}

// GlobalTagRequest - тег общего словаря.
type GlobalTagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

// RenameGlobalTagRequest - переименование тега словаря.
type RenameGlobalTagRequest struct {
	OldTag string `json:"oldTag" binding:"required"`
	NewTag string `json:"newTag" binding:"required"`
}

// PlaylistNameRequest - создание и переименование плейлиста.
type PlaylistNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// ToggleShotRequest - добавление шота в плейлист или удаление из него.
type ToggleShotRequest struct {
	ShotID string `json:"shotId" binding:"required"`
}

// BulkAddRequest - добавление нескольких шотов в плейлист.
type BulkAddRequest struct {
	ShotIDs []string `json:"shotIds" binding:"required"`
}

// SharePlaylistRequest - список пользователей, с которыми открыт плейлист.
type SharePlaylistRequest struct {
	Emails []string `json:"emails"`
}

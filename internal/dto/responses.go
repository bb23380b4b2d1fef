package dto

import "github.com/ignatzorin/shotboard/internal/models"

// SuccessResponse - ответ без данных.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ShotsResponse - отфильтрованные шоты.
type ShotsResponse struct {
	Shots []models.Shot `json:"shots"`
	Total int           `json:"total"`
	Count int           `json:"count"`
}

// ShotResponse - шот вместе с тегами и плейлистами.
type ShotResponse struct {
	models.Shot
	Tags      []string `json:"tags"`
	Playlists []string `json:"playlists"`
}

// PromptResponse - содержимое текстового файла шота.
type PromptResponse struct {
	Name    string              `json:"name"`
	Type    models.PromptFormat `json:"type"`
	Title   string              `json:"title,omitempty"`
	Content string              `json:"content"`
	Plain   bool                `json:"plain"`
}

// UploadResponse - результат добавления папок.
type UploadResponse struct {
	Folders []string      `json:"folders"`
	Shots   []models.Shot `json:"shots"`
}

// TagsResponse - теги шотов и общий словарь.
type TagsResponse struct {
	Tags          models.Tags `json:"tags"`
	AllGlobalTags []string    `json:"allGlobalTags"`
}

// ToggleResponse - плейлист после переключения шота.
type ToggleResponse struct {
	Playlist models.Playlist `json:"playlist"`
	Added    bool            `json:"added"`
}

// NewShotsResponse собирает ответ списка шотов.
func NewShotsResponse(shots []models.Shot, total int) ShotsResponse {
	if shots == nil {
		shots = []models.Shot{}
	}
	return ShotsResponse{Shots: shots, Total: total, Count: len(shots)}
}

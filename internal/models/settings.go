package models

// Settings хранит пользовательские предпочтения каталога.
type Settings struct {
	ShotCovers       ShotCovers `json:"shotCovers"`
	ActivePlaylistID *string    `json:"activePlaylistId"`
	IsSidebarOpen    bool       `json:"isSidebarOpen"`
}

// DefaultSettings возвращает настройки пустого каталога.
func DefaultSettings() Settings {
	return Settings{ShotCovers: ShotCovers{}, IsSidebarOpen: true}
}

// AdvancedFilterState - четыре независимых фасета расширенного фильтра.
type AdvancedFilterState struct {
	Tags      []string `json:"tags"`
	Playlists []string `json:"playlists"`
	Formats   []string `json:"formats"`
	Folders   []string `json:"folders"`
}

// IsEmpty сообщает, что ни один фасет не выбран.
func (a AdvancedFilterState) IsEmpty() bool {
	return len(a.Tags) == 0 && len(a.Playlists) == 0 && len(a.Formats) == 0 && len(a.Folders) == 0
}

// Backup - экспорт состояния каталога.
type Backup struct {
	Playlists     Playlists  `json:"playlists"`
	Tags          Tags       `json:"tags"`
	AllGlobalTags []string   `json:"allGlobalTags"`
	ShotCovers    ShotCovers `json:"shotCovers"`
	Users         []User     `json:"users"`
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/ignatzorin/shotboard/internal/catalog"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/validation"
)

// Preset - сохранённый фильтр вместе с тегами и плейлистами, на которые он ссылается.
// Файл пресета допускает комментарии и висячие запятые.
type Preset struct {
	Folder         string                     `json:"folder"`
	Playlist       string                     `json:"playlist"`
	InvertPlaylist bool                       `json:"invertPlaylist"`
	Tags           []string                   `json:"tags"`
	InvertTags     bool                       `json:"invertTags"`
	Advanced       models.AdvancedFilterState `json:"advanced"`
	Search         string                     `json:"search"`
	ShotTags       models.Tags                `json:"shotTags"`
	Playlists      models.Playlists           `json:"playlists"`
}

// LoadPreset читает пресет из JSONC файла.
func LoadPreset(path string) (Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}
	return ParsePreset(raw)
}

// ParsePreset разбирает JSONC пресета.
func ParsePreset(raw []byte) (Preset, error) {
	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return Preset{}, fmt.Errorf("preset: invalid JSONC: %w", err)
	}
	var p Preset
	if err := json.Unmarshal(standardized, &p); err != nil {
		return Preset{}, fmt.Errorf("preset: invalid JSON: %w", err)
	}
	for id, pl := range p.Playlists {
		pl.ID = id
		p.Playlists[id] = pl
	}
	return p, nil
}

// Override заменяет поля пресета флагами, заданными явно.
func (p Preset) Override(flags Preset, changed func(string) bool) Preset {
	if changed == nil {
		return p
	}
	if changed("folder") {
		p.Folder = flags.Folder
	}
	if changed("playlist") {
		p.Playlist = flags.Playlist
	}
	if changed("invert-playlist") {
		p.InvertPlaylist = flags.InvertPlaylist
	}
	if changed("tag") {
		p.Tags = flags.Tags
	}
	if changed("invert-tags") {
		p.InvertTags = flags.InvertTags
	}
	if changed("adv-tag") {
		p.Advanced.Tags = flags.Advanced.Tags
	}
	if changed("adv-playlist") {
		p.Advanced.Playlists = flags.Advanced.Playlists
	}
	if changed("adv-format") {
		p.Advanced.Formats = flags.Advanced.Formats
	}
	if changed("adv-folder") {
		p.Advanced.Folders = flags.Advanced.Folders
	}
	if changed("search") {
		p.Search = flags.Search
	}
	return p
}

// Context переводит пресет в контекст фильтра.
func (p Preset) Context() catalog.FilterContext {
	return catalog.FilterContext{
		ActiveFolder:   p.Folder,
		ActivePlaylist: p.Playlist,
		InvertPlaylist: p.InvertPlaylist,
		SelectedTags:   p.Tags,
		InvertTags:     p.InvertTags,
		Advanced:       p.Advanced,
		SearchQuery:    validation.SanitizeSearchQuery(p.Search),
	}
}

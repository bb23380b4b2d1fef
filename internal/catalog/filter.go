package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/ignatzorin/shotboard/internal/models"
)

// FilterContext описывает составной фильтр каталога.
type FilterContext struct {
	ActiveFolder   string
	ActivePlaylist string
	InvertPlaylist bool
	SelectedTags   []string
	InvertTags     bool
	Advanced       models.AdvancedFilterState
	SearchQuery    string
	TagsByShot     models.Tags
	PlaylistsByID  models.Playlists
}

type predicate func(models.Shot) bool

// Filter возвращает видимое подмножество шотов. Порядок входа сохраняется,
// входные данные не изменяются, ошибок нет: несогласованные поля контекста
// дают «нет совпадения» для своей стадии.
func Filter(shots []models.Shot, fc FilterContext) []models.Shot {
	stages := fc.stages()
	out := make([]models.Shot, 0, len(shots))
	for _, s := range shots {
		if matchAll(s, stages) {
			out = append(out, s)
		}
	}
	return out
}

// Match проверяет один шот против фильтра.
func Match(s models.Shot, fc FilterContext) bool {
	return matchAll(s, fc.stages())
}

func matchAll(s models.Shot, stages []predicate) bool {
	for _, keep := range stages {
		if !keep(s) {
			return false
		}
	}
	return true
}

// stages собирает активные стадии в фиксированном порядке.
func (fc FilterContext) stages() []predicate {
	var stages []predicate

	if fc.ActiveFolder != "" {
		folder := fc.ActiveFolder
		stages = append(stages, func(s models.Shot) bool { return s.FolderID == folder })
	}

	// Удалённый плейлист не сужает выборку.
	if p, ok := fc.PlaylistsByID[fc.ActivePlaylist]; fc.ActivePlaylist != "" && ok {
		members := toSet(p.ShotIDs)
		invert := fc.InvertPlaylist
		stages = append(stages, func(s models.Shot) bool {
			_, in := members[s.ID]
			return in != invert
		})
	}

	if len(fc.SelectedTags) > 0 {
		selected := fc.SelectedTags
		invert := fc.InvertTags
		stages = append(stages, func(s models.Shot) bool {
			return hasAllTags(fc.TagsByShot[s.ID], selected) != invert
		})
	}

	if !fc.Advanced.IsEmpty() {
		stages = append(stages, fc.advancedStages()...)
	}

	if query := normalizeQuery(fc.SearchQuery); query != "" {
		stages = append(stages, func(s models.Shot) bool {
			return matchesSearch(s, fc.TagsByShot[s.ID], query)
		})
	}

	return stages
}

// advancedStages - фасеты расширенного фильтра: папки, теги, плейлисты, форматы.
func (fc FilterContext) advancedStages() []predicate {
	var stages []predicate

	adv := fc.Advanced
	if len(adv.Folders) > 0 {
		folders := toSet(adv.Folders)
		stages = append(stages, func(s models.Shot) bool {
			_, ok := folders[s.FolderID]
			return ok
		})
	}

	if len(adv.Tags) > 0 {
		required := adv.Tags
		stages = append(stages, func(s models.Shot) bool {
			return hasAllTags(fc.TagsByShot[s.ID], required)
		})
	}

	if len(adv.Playlists) > 0 {
		memberships := make([]map[string]struct{}, 0, len(adv.Playlists))
		missing := false
		for _, id := range adv.Playlists {
			p, ok := fc.PlaylistsByID[id]
			if !ok {
				missing = true
				break
			}
			memberships = append(memberships, toSet(p.ShotIDs))
		}
		stages = append(stages, func(s models.Shot) bool {
			if missing {
				return false
			}
			for _, m := range memberships {
				if _, ok := m[s.ID]; !ok {
					return false
				}
			}
			return true
		})
	}

	if len(adv.Formats) > 0 {
		formats := make(map[string]struct{}, len(adv.Formats))
		for _, f := range adv.Formats {
			formats[strings.ToLower(strings.TrimPrefix(f, "."))] = struct{}{}
		}
		stages = append(stages, func(s models.Shot) bool {
			for _, name := range s.FileNames() {
				if _, ok := formats[Extension(name)]; ok {
					return true
				}
			}
			return false
		})
	}

	return stages
}

// normalizeQuery обрезает пробелы и приводит запрос к регистронезависимой форме.
func normalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return ""
	}
	return cases.Fold().String(q)
}

// matchesSearch ищет подстроку в ID, склеенном содержимом текстовых файлов или тегах.
func matchesSearch(s models.Shot, tags []string, query string) bool {
	fold := cases.Fold()
	if strings.Contains(fold.String(s.ID), query) {
		return true
	}

	if len(s.PromptFiles) > 0 {
		contents := make([]string, len(s.PromptFiles))
		for i, p := range s.PromptFiles {
			contents[i] = p.Content
		}
		if strings.Contains(fold.String(strings.Join(contents, " ")), query) {
			return true
		}
	}

	for _, tag := range tags {
		if strings.Contains(fold.String(tag), query) {
			return true
		}
	}
	return false
}

func hasAllTags(shotTags, required []string) bool {
	have := toSet(shotTags)
	for _, t := range required {
		if _, ok := have[t]; !ok {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

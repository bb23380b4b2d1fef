package catalog

import (
	"sort"
	"strings"

	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
)

const (
	// MaxTagsPerShot ограничивает число тегов одного шота.
	MaxTagsPerShot = 20
	// MaxGlobalTags ограничивает размер общего словаря тегов.
	MaxGlobalTags = 50
)

// Все функции ниже не меняют входную карту и возвращают новую.

// AddTag добавляет тег шоту. Уже существующий тег - не ошибка, карта возвращается как есть.
func AddTag(tags models.Tags, shotID, tag string) (models.Tags, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tags, apperror.New(apperror.ErrCodeValidation, "тег не может быть пустым")
	}

	current := tags[shotID]
	if containsString(current, tag) {
		return tags, nil
	}
	if len(current) >= MaxTagsPerShot {
		return tags, apperror.Newf(apperror.ErrCodeValidation, "у шота не может быть больше %d тегов", MaxTagsPerShot)
	}

	next := tags.Clone()
	next[shotID] = sortedUnique(append(append([]string{}, current...), tag))
	return next, nil
}

// RemoveTag удаляет тег шота; пустой список удаляет ключ целиком.
func RemoveTag(tags models.Tags, shotID, tag string) models.Tags {
	current, ok := tags[shotID]
	if !ok || !containsString(current, tag) {
		return tags
	}

	next := tags.Clone()
	setTags(next, shotID, without(current, tag))
	return next
}

// BulkTag добавляет и удаляет теги у набора шотов.
func BulkTag(tags models.Tags, shotIDs, add, remove []string) models.Tags {
	next := tags.Clone()
	drop := toSet(remove)
	for _, id := range shotIDs {
		set := toSet(next[id])
		for _, t := range add {
			if t = strings.TrimSpace(t); t != "" {
				set[t] = struct{}{}
			}
		}
		for t := range drop {
			delete(set, t)
		}
		setTags(next, id, keys(set))
	}
	return next
}

// RenameTag заменяет тег во всех шотах с сохранением сортировки и уникальности.
func RenameTag(tags models.Tags, oldTag, newTag string) models.Tags {
	next := tags.Clone()
	for id, list := range tags {
		if !containsString(list, oldTag) {
			continue
		}
		setTags(next, id, append(without(list, oldTag), newTag))
	}
	return next
}

// DeleteTag убирает тег из всех шотов.
func DeleteTag(tags models.Tags, tag string) models.Tags {
	next := tags.Clone()
	for id, list := range tags {
		if containsString(list, tag) {
			setTags(next, id, without(list, tag))
		}
	}
	return next
}

// AddGlobalTag добавляет тег в общий словарь. Совпадение без учёта регистра - конфликт имени.
func AddGlobalTag(globals []string, tag string) ([]string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return globals, apperror.New(apperror.ErrCodeValidation, "тег не может быть пустым")
	}
	if containsFold(globals, tag) {
		return globals, apperror.Newf(apperror.ErrCodeNameConflict, "тег %q уже существует", tag)
	}
	if len(globals) >= MaxGlobalTags {
		return globals, apperror.Newf(apperror.ErrCodeValidation, "словарь не может содержать больше %d тегов", MaxGlobalTags)
	}
	return sortedUnique(append(append([]string{}, globals...), tag)), nil
}

// RenameGlobalTag переименовывает тег словаря.
func RenameGlobalTag(globals []string, oldTag, newTag string) ([]string, error) {
	newTag = strings.TrimSpace(newTag)
	if newTag == "" {
		return globals, apperror.New(apperror.ErrCodeValidation, "тег не может быть пустым")
	}
	if !containsString(globals, oldTag) {
		return globals, apperror.Newf(apperror.ErrCodeNotFound, "тег %q не найден", oldTag)
	}
	if oldTag == newTag {
		return globals, nil
	}
	// Смена одного регистра тоже конфликт: Night -> night отклоняется.
	if containsFold(globals, newTag) {
		return globals, apperror.Newf(apperror.ErrCodeNameConflict, "тег %q уже существует", newTag)
	}

	next := make([]string, 0, len(globals))
	for _, t := range globals {
		if t == oldTag {
			t = newTag
		}
		next = append(next, t)
	}
	return sortedUnique(next), nil
}

// DeleteGlobalTag убирает тег из словаря.
func DeleteGlobalTag(globals []string, tag string) []string {
	return without(globals, tag)
}

// NormalizeTags приводит карту к каноническому виду: списки отсортированы, без дублей, пустые удалены.
func NormalizeTags(tags models.Tags) models.Tags {
	next := make(models.Tags, len(tags))
	for id, list := range tags {
		setTags(next, id, list)
	}
	return next
}

func setTags(tags models.Tags, shotID string, list []string) {
	list = sortedUnique(list)
	if len(list) == 0 {
		delete(tags, shotID)
		return
	}
	tags[shotID] = list
}

func sortedUnique(list []string) []string {
	set := toSet(list)
	return keys(set)
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func without(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// containsFold ищет значение без учёта регистра.
func containsFold(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

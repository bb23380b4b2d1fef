package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
)

// CanEdit - единственный предикат права на изменение плейлиста: владелец или тот, с кем им поделились.
func CanEdit(actor models.User, p models.Playlist) bool {
	return p.Owner == actor.Email || p.IsSharedWith(actor.Email)
}

// CanDelete разрешает удаление владельцу и администратору.
func CanDelete(actor models.User, p models.Playlist) bool {
	return p.Owner == actor.Email || actor.IsAdmin()
}

// CanShare разрешает менять список доступа владельцу и администратору.
func CanShare(actor models.User, p models.Playlist) bool {
	return CanDelete(actor, p)
}

// CreatePlaylist создаёт пустой плейлист, принадлежащий actor.
func CreatePlaylist(ps models.Playlists, actor models.User, id, name string) (models.Playlists, models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ps, models.Playlist{}, apperror.New(apperror.ErrCodeValidation, "название плейлиста обязательно")
	}
	if nameTaken(ps, name, "") {
		return ps, models.Playlist{}, apperror.Newf(apperror.ErrCodeNameConflict, "плейлист %q уже существует", name)
	}

	p := models.Playlist{
		ID:         id,
		Name:       name,
		Owner:      actor.Email,
		ShotIDs:    models.StringList{},
		SharedWith: models.StringList{},
	}
	next := ps.Clone()
	next[id] = p
	return next, p, nil
}

// RenamePlaylist меняет название плейлиста.
func RenamePlaylist(ps models.Playlists, actor models.User, id, name string) (models.Playlists, error) {
	p, err := editable(ps, actor, id)
	if err != nil {
		return ps, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ps, apperror.New(apperror.ErrCodeValidation, "название плейлиста обязательно")
	}
	if name == p.Name {
		return ps, nil
	}
	if nameTaken(ps, name, id) {
		return ps, apperror.Newf(apperror.ErrCodeNameConflict, "плейлист %q уже существует", name)
	}

	p = p.Clone()
	p.Name = name
	next := ps.Clone()
	next[id] = p
	return next, nil
}

// DeletePlaylist удаляет плейлист.
func DeletePlaylist(ps models.Playlists, actor models.User, id string) (models.Playlists, error) {
	p, ok := ps[id]
	if !ok {
		return ps, apperror.ErrPlaylistNotFound
	}
	if !CanDelete(actor, p) {
		return ps, apperror.Newf(apperror.ErrCodePermissionDenied, "удалить плейлист %q может только владелец или администратор", p.Name)
	}
	next := ps.Clone()
	delete(next, id)
	return next, nil
}

// DuplicatePlaylist копирует плейлист под новым именем; копия принадлежит actor, доступ не копируется.
func DuplicatePlaylist(ps models.Playlists, actor models.User, srcID, newID string) (models.Playlists, models.Playlist, error) {
	src, err := editable(ps, actor, srcID)
	if err != nil {
		return ps, models.Playlist{}, err
	}

	name := src.Name + " (copy)"
	for i := 2; nameTaken(ps, name, ""); i++ {
		name = fmt.Sprintf("%s (copy %d)", src.Name, i)
	}

	p := src.Clone()
	p.ID = newID
	p.Name = name
	p.Owner = actor.Email
	p.SharedWith = models.StringList{}

	next := ps.Clone()
	next[newID] = p
	return next, p, nil
}

// ToggleShot добавляет шот в плейлист или убирает его. added сообщает итоговое состояние.
func ToggleShot(ps models.Playlists, actor models.User, id, shotID string) (next models.Playlists, added bool, err error) {
	p, err := editable(ps, actor, id)
	if err != nil {
		return ps, false, err
	}

	p = p.Clone()
	if p.Contains(shotID) {
		p.ShotIDs = without(p.ShotIDs, shotID)
	} else {
		p.ShotIDs = append(p.ShotIDs, shotID)
		added = true
	}
	next = ps.Clone()
	next[id] = p
	return next, added, nil
}

// BulkAdd дописывает шоты в конец плейлиста, пропуская уже входящие.
func BulkAdd(ps models.Playlists, actor models.User, id string, shotIDs []string) (models.Playlists, error) {
	p, err := editable(ps, actor, id)
	if err != nil {
		return ps, err
	}

	p = p.Clone()
	seen := toSet(p.ShotIDs)
	for _, shotID := range shotIDs {
		if _, ok := seen[shotID]; ok {
			continue
		}
		seen[shotID] = struct{}{}
		p.ShotIDs = append(p.ShotIDs, shotID)
	}
	next := ps.Clone()
	next[id] = p
	return next, nil
}

// SharePlaylist заменяет список пользователей, с которыми поделились плейлистом.
func SharePlaylist(ps models.Playlists, actor models.User, id string, emails []string) (models.Playlists, error) {
	p, ok := ps[id]
	if !ok {
		return ps, apperror.ErrPlaylistNotFound
	}
	if !CanShare(actor, p) {
		return ps, apperror.Newf(apperror.ErrCodePermissionDenied, "делиться плейлистом %q может только владелец или администратор", p.Name)
	}

	shared := make(models.StringList, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" || e == p.Owner {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		shared = append(shared, e)
	}

	p = p.Clone()
	p.SharedWith = shared
	next := ps.Clone()
	next[id] = p
	return next, nil
}

// VisiblePlaylists возвращает плейлисты, которые actor может редактировать, отсортированные по названию.
func VisiblePlaylists(ps models.Playlists, actor models.User) []models.Playlist {
	out := make([]models.Playlist, 0, len(ps))
	for _, p := range ps {
		if CanEdit(actor, p) {
			out = append(out, p)
		}
	}
	SortByName(out)
	return out
}

// SortByName упорядочивает плейлисты по названию с учётом правил сортировки языка.
func SortByName(list []models.Playlist) {
	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(list, func(i, j int) bool {
		if c := col.CompareString(list[i].Name, list[j].Name); c != 0 {
			return c < 0
		}
		return list[i].ID < list[j].ID
	})
}

// Memberships возвращает ID плейлистов, в которые входит шот.
func Memberships(ps models.Playlists, shotID string) []string {
	out := make([]string, 0)
	for id, p := range ps {
		if p.Contains(shotID) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// editable находит плейлист и проверяет право на изменение.
func editable(ps models.Playlists, actor models.User, id string) (models.Playlist, error) {
	p, ok := ps[id]
	if !ok {
		return models.Playlist{}, apperror.ErrPlaylistNotFound
	}
	if !CanEdit(actor, p) {
		return models.Playlist{}, apperror.Newf(apperror.ErrCodePermissionDenied, "нет прав на изменение плейлиста %q", p.Name)
	}
	return p, nil
}

func nameTaken(ps models.Playlists, name, exceptID string) bool {
	for id, p := range ps {
		if id != exceptID && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

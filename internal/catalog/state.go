package catalog

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
)

// State - неизменяемый снимок каталога и связанных с ним пользовательских данных.
// Переходы создают новое значение; поля-карты заменяются целиком.
type State struct {
	Shots      []models.Shot
	Tags       models.Tags
	GlobalTags []string
	Playlists  models.Playlists
	Covers     models.ShotCovers
}

// EmptyState возвращает пустой каталог.
func EmptyState() State {
	return State{
		Shots:      []models.Shot{},
		Tags:       models.Tags{},
		GlobalTags: []string{},
		Playlists:  models.Playlists{},
		Covers:     models.ShotCovers{},
	}
}

// SourceFolders возвращает отсортированный список папок-источников.
func (s State) SourceFolders() []string {
	seen := make(map[string]struct{})
	for _, shot := range s.Shots {
		seen[shot.FolderID] = struct{}{}
	}
	return keys(seen)
}

// HasFolder сообщает, есть ли в каталоге шоты из папки.
func (s State) HasFolder(folder string) bool {
	for _, shot := range s.Shots {
		if shot.FolderID == folder {
			return true
		}
	}
	return false
}

// Shot ищет шот по ID; шоты отсортированы, поэтому поиск двоичный.
func (s State) Shot(id string) (models.Shot, bool) {
	i := sort.Search(len(s.Shots), func(i int) bool { return s.Shots[i].ID >= id })
	if i < len(s.Shots) && s.Shots[i].ID == id {
		return s.Shots[i], true
	}
	return models.Shot{}, false
}

// Bind дополняет контекст фильтра тегами и плейлистами снимка.
func (s State) Bind(fc FilterContext) FilterContext {
	fc.TagsByShot = s.Tags
	fc.PlaylistsByID = s.Playlists
	return fc
}

// CheckFolderAvailable возвращает DuplicateSourceFolder, если папка уже в каталоге.
func (s State) CheckFolderAvailable(folder string) error {
	if s.HasFolder(folder) {
		return apperror.Newf(apperror.ErrCodeDuplicateSourceFolder, "папка %q уже добавлена", folder)
	}
	return nil
}

// MergeShots добавляет пакет шотов одним переходом и пересортировывает каталог по ID.
func (s State) MergeShots(batch []models.Shot) (State, error) {
	for _, folder := range (State{Shots: batch}).SourceFolders() {
		if err := s.CheckFolderAvailable(folder); err != nil {
			return s, err
		}
	}

	merged := make([]models.Shot, 0, len(s.Shots)+len(batch))
	merged = append(merged, s.Shots...)
	merged = append(merged, batch...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })

	s.Shots = merged
	return s, nil
}

// RemoveFolder убирает из каталога все шоты папки.
func (s State) RemoveFolder(folder string) (State, error) {
	if !s.HasFolder(folder) {
		return s, apperror.Newf(apperror.ErrCodeNotFound, "папка %q не найдена", folder)
	}
	kept := make([]models.Shot, 0, len(s.Shots))
	for _, shot := range s.Shots {
		if shot.FolderID != folder {
			kept = append(kept, shot)
		}
	}
	s.Shots = kept
	return s, nil
}

// SetCover запоминает выбор обложки и пересчитывает её у шота.
func (s State) SetCover(shotID, fileName string) (State, error) {
	i := sort.Search(len(s.Shots), func(i int) bool { return s.Shots[i].ID >= shotID })
	if i >= len(s.Shots) || s.Shots[i].ID != shotID {
		return s, apperror.ErrShotNotFound
	}
	updated, ok := WithCover(s.Shots[i], fileName)
	if !ok {
		return s, apperror.Newf(apperror.ErrCodeNotFound, "файл %q не найден среди медиафайлов шота", fileName)
	}

	shots := append([]models.Shot{}, s.Shots...)
	shots[i] = updated
	covers := s.Covers.Clone()
	covers[shotID] = fileName

	s.Shots = shots
	s.Covers = covers
	return s, nil
}

// ReplaceCovers заменяет сохранённые обложки и пересчитывает обложки всех шотов.
func (s State) ReplaceCovers(covers models.ShotCovers) State {
	covers = covers.Clone()
	shots := make([]models.Shot, len(s.Shots))
	for i, shot := range s.Shots {
		shot.CoverURL, shot.CoverType = ResolveCover(shot, covers[shot.ID])
		shots[i] = shot
	}
	s.Shots = shots
	s.Covers = covers
	return s
}

// Store хранит текущий снимок. Читатели получают снимок без блокировок,
// изменения сериализуются и публикуются атомарно.
type Store struct {
	mu  sync.Mutex
	cur atomic.Pointer[State]
}

// NewStore создаёт хранилище с начальным состоянием.
func NewStore(initial State) *Store {
	st := &Store{}
	st.cur.Store(&initial)
	return st
}

// Load возвращает текущий снимок. Снимок нельзя изменять.
func (st *Store) Load() State {
	return *st.cur.Load()
}

// Update применяет переход. При ошибке состояние не меняется.
func (st *Store) Update(fn func(State) (State, error)) (State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, err := fn(*st.cur.Load())
	if err != nil {
		return st.Load(), err
	}
	st.cur.Store(&next)
	return next, nil
}

package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shotboard/internal/catalog"
	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/preview"
	"github.com/ignatzorin/shotboard/internal/repository"
	"github.com/ignatzorin/shotboard/internal/source"
	"github.com/ignatzorin/shotboard/internal/validation"
	"github.com/ignatzorin/shotboard/internal/ws"
)

// CatalogDeps - зависимости сервиса каталога.
type CatalogDeps struct {
	Files       FolderStorage
	Directories DirectoryRepository
	Tags        TagRepository
	Playlists   PlaylistRepository
	State       StateRepository
	Events      Broadcaster
	Cache       *CacheService
	Workers     int
}

// CatalogService владеет снимком каталога: шоты, теги, плейлисты, обложки и настройки.
// Каждое изменение сохраняет затронутый документ целиком до публикации нового снимка.
type CatalogService struct {
	store      *catalog.Store
	aggregator *catalog.Aggregator
	files      FolderStorage
	dirs       DirectoryRepository
	tags       TagRepository
	playlists  PlaylistRepository
	state      StateRepository
	events     Broadcaster
	cache      *CacheService

	// prefs меняется только внутри store.Update; порядок блокировок: store, prefsMu.
	prefsMu sync.RWMutex
	prefs   models.Settings

	inflightMu sync.Mutex
	inflight   map[string]struct{}

	// restoring закрывается по окончании Restore; nil - восстановление не идёт.
	restoreMu sync.Mutex
	restoring chan struct{}
}

// NewCatalogService создаёт сервис с пустым каталогом.
func NewCatalogService(deps CatalogDeps) *CatalogService {
	return &CatalogService{
		store:      catalog.NewStore(catalog.EmptyState()),
		aggregator: catalog.NewAggregator(deps.Workers),
		files:      deps.Files,
		dirs:       deps.Directories,
		tags:       deps.Tags,
		playlists:  deps.Playlists,
		state:      deps.State,
		events:     orNop(deps.Events),
		cache:      deps.Cache,
		prefs:      models.DefaultSettings(),
		inflight:   make(map[string]struct{}),
	}
}

// Snapshot возвращает текущий снимок каталога.
func (s *CatalogService) Snapshot() catalog.State {
	return s.store.Load()
}

// Restore загружает сохранённые документы и заново собирает сохранённые папки.
// Папки, которые не удалось прочитать, пропускаются с предупреждением.
// Изменения каталога, начатые во время восстановления, ждут его окончания.
func (s *CatalogService) Restore(ctx context.Context) error {
	finish, err := s.beginRestore()
	if err != nil {
		return err
	}
	defer finish()

	tags, err := s.tags.Get(ctx)
	if err != nil {
		return err
	}
	playlists, err := s.playlists.List(ctx)
	if err != nil {
		return err
	}
	var globals []string
	if _, err := s.state.Get(ctx, repository.KeyGlobalTags, &globals); err != nil {
		return err
	}
	settings := models.DefaultSettings()
	if _, err := s.state.Get(ctx, repository.KeySettings, &settings); err != nil {
		return err
	}
	if settings.ShotCovers == nil {
		settings.ShotCovers = models.ShotCovers{}
	}
	if globals == nil {
		globals = []string{}
	}

	folders, err := s.dirs.List(ctx)
	if err != nil {
		return err
	}

	restored := catalog.EmptyState()
	for _, folder := range folders {
		descs, err := s.files.Scan(folder)
		if err != nil {
			logger.Entry(logrus.Fields{"folder": folder, "error": err}).Warn("catalog: сохранённая папка недоступна, пропускаем")
			continue
		}
		batch, err := s.aggregator.Aggregate(ctx, descs, settings.ShotCovers)
		if err != nil {
			logger.Entry(logrus.Fields{"folder": folder, "error": err}).Warn("catalog: не удалось собрать папку, пропускаем")
			continue
		}
		next, err := restored.MergeShots(batch)
		if err != nil {
			logger.Entry(logrus.Fields{"folder": folder, "error": err}).Warn("catalog: папка повторяется, пропускаем")
			continue
		}
		restored = next
	}
	restored.Tags = catalog.NormalizeTags(tags)
	restored.GlobalTags = globals
	restored.Playlists = playlists
	restored.Covers = settings.ShotCovers

	next, err := s.store.Update(func(cur catalog.State) (catalog.State, error) {
		merged, added := mergeRestored(restored, cur)
		if added {
			if err := s.dirs.Replace(ctx, merged.SourceFolders()); err != nil {
				return cur, err
			}
		}
		s.setPrefs(models.Settings{ActivePlaylistID: settings.ActivePlaylistID, IsSidebarOpen: settings.IsSidebarOpen})
		return merged, nil
	})
	if err != nil {
		return err
	}
	logger.Entry(logrus.Fields{
		"folders":   len(folders),
		"shots":     len(next.Shots),
		"playlists": len(next.Playlists),
	}).Info("catalog: состояние восстановлено")
	return nil
}

// mergeRestored накладывает текущий снимок на восстановленный: шоты папок,
// которых нет среди сохранённых, и записи текущих документов сохраняются.
// Второе значение сообщает, добавились ли папки.
func mergeRestored(restored, cur catalog.State) (catalog.State, bool) {
	var extra []models.Shot
	for _, shot := range cur.Shots {
		if !restored.HasFolder(shot.FolderID) {
			extra = append(extra, shot)
		}
	}
	out := restored
	if len(extra) > 0 {
		if merged, err := restored.MergeShots(extra); err == nil {
			out = merged
		}
	}

	out.Tags = restored.Tags.Clone()
	for id, list := range cur.Tags {
		out.Tags[id] = list
	}
	out.Playlists = restored.Playlists.Clone()
	for id, p := range cur.Playlists {
		out.Playlists[id] = p
	}
	out.Covers = restored.Covers.Clone()
	for id, name := range cur.Covers {
		out.Covers[id] = name
	}
	out.GlobalTags = append([]string{}, restored.GlobalTags...)
	for _, t := range cur.GlobalTags {
		if !slices.Contains(out.GlobalTags, t) {
			out.GlobalTags = append(out.GlobalTags, t)
		}
	}
	return out, len(extra) > 0
}

// beginRestore открывает окно восстановления; finish закрывает его.
func (s *CatalogService) beginRestore() (finish func(), err error) {
	s.restoreMu.Lock()
	defer s.restoreMu.Unlock()
	if s.restoring != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "восстановление каталога уже идёт")
	}
	ch := make(chan struct{})
	s.restoring = ch
	return func() {
		s.restoreMu.Lock()
		s.restoring = nil
		s.restoreMu.Unlock()
		close(ch)
	}, nil
}

// awaitRestore блокирует до окончания идущего восстановления.
func (s *CatalogService) awaitRestore(ctx context.Context) error {
	s.restoreMu.Lock()
	ch := s.restoring
	s.restoreMu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// update - единственная точка изменения снимка вне Restore.
func (s *CatalogService) update(ctx context.Context, fn func(catalog.State) (catalog.State, error)) (catalog.State, error) {
	if err := s.awaitRestore(ctx); err != nil {
		return catalog.State{}, err
	}
	return s.store.Update(fn)
}

// ingestFile - файл, который нужно сохранить в хранилище перед агрегацией.
type ingestFile struct {
	path string
	open func() (io.ReadCloser, error)
}

// AddUpload сохраняет загруженные папки и добавляет их шоты в каталог.
func (s *CatalogService) AddUpload(ctx context.Context, parts []source.Part) ([]models.Shot, error) {
	items := make([]ingestFile, 0, len(parts))
	for _, p := range parts {
		header := p.Header
		items = append(items, ingestFile{
			path: p.Path,
			open: func() (io.ReadCloser, error) { return header.Open() },
		})
	}
	return s.ingest(ctx, items)
}

// ImportDirectory копирует локальный каталог сервера в хранилище под именем name
// (по умолчанию - имя каталога) и добавляет его шоты.
func (s *CatalogService) ImportDirectory(ctx context.Context, dir, name string) ([]models.Shot, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "каталог %q недоступен", dir)
	}

	descs, err := source.ScanDir(dir, name)
	if err != nil {
		return nil, err
	}
	if len(descs) == 0 {
		return []models.Shot{}, nil
	}

	items := make([]ingestFile, 0, len(descs))
	for _, d := range descs {
		f, ok := d.(source.DirFile)
		if !ok {
			continue
		}
		abs := f.AbsPath()
		items = append(items, ingestFile{
			path: f.Path(),
			open: func() (io.ReadCloser, error) { return os.Open(abs) },
		})
	}
	return s.ingest(ctx, items)
}

// ingest проверяет папки, сохраняет файлы, агрегирует и присоединяет пакет одним переходом.
func (s *CatalogService) ingest(ctx context.Context, items []ingestFile) ([]models.Shot, error) {
	if len(items) == 0 {
		return []models.Shot{}, nil
	}
	if items[0].path == "" {
		return nil, apperror.ErrPathInfoUnavailable
	}

	folders := ingestFolders(items)
	for _, f := range folders {
		if err := validation.ValidateFolderName(f); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if err := s.awaitRestore(ctx); err != nil {
		return nil, err
	}
	if err := s.reserve(folders); err != nil {
		return nil, err
	}
	defer s.release(folders)

	descs := make([]catalog.FileDescriptor, 0, len(items))
	for _, item := range items {
		d, err := s.save(ctx, item)
		if err != nil {
			s.discard(folders)
			return nil, err
		}
		descs = append(descs, d)
	}

	current := s.store.Load()
	shots, err := s.aggregator.Aggregate(ctx, descs, current.Covers)
	if err != nil {
		s.discard(folders)
		return nil, err
	}

	next, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		merged, err := st.MergeShots(shots)
		if err != nil {
			return st, err
		}
		if err := s.dirs.Replace(ctx, merged.SourceFolders()); err != nil {
			return st, err
		}
		return merged, nil
	})
	if err != nil {
		s.discard(folders)
		return nil, err
	}

	// Папки без шотов не попадают в каталог и не должны занимать хранилище.
	for _, f := range folders {
		if !next.HasFolder(f) {
			s.discard([]string{f})
		}
		if s.cache != nil {
			s.cache.InvalidateByPrefix(FolderPreviewPrefix(f))
		}
	}

	logger.Entry(logrus.Fields{"folders": folders, "files": len(items), "shots": len(shots)}).Info("catalog: папки добавлены")
	_ = s.events.Broadcast(ws.EventCatalogUpdated, map[string]any{"added": folders, "shots": len(next.Shots)})
	return shots, nil
}

func (s *CatalogService) save(ctx context.Context, item ingestFile) (catalog.FileDescriptor, error) {
	r, err := item.open()
	if err != nil {
		return nil, fmt.Errorf("catalog: открытие %s: %w", item.path, err)
	}
	defer r.Close()

	d, _, err := s.files.Save(ctx, item.path, r)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// reserve отмечает папки как добавляемые; повторное добавление той же папки отклоняется.
func (s *CatalogService) reserve(folders []string) error {
	st := s.store.Load()

	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	for _, f := range folders {
		if _, busy := s.inflight[f]; busy {
			return apperror.Newf(apperror.ErrCodeDuplicateSourceFolder, "папка %q уже добавляется", f)
		}
		if err := st.CheckFolderAvailable(f); err != nil {
			return err
		}
	}
	for _, f := range folders {
		s.inflight[f] = struct{}{}
	}
	return nil
}

func (s *CatalogService) release(folders []string) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	for _, f := range folders {
		delete(s.inflight, f)
	}
}

// discard удаляет из хранилища файлы несостоявшегося добавления.
func (s *CatalogService) discard(folders []string) {
	for _, f := range folders {
		if err := s.files.RemoveFolder(context.Background(), f); err != nil {
			logger.Entry(logrus.Fields{"folder": f, "error": err}).Warn("catalog: не удалось очистить папку")
		}
	}
}

func ingestFolders(items []ingestFile) []string {
	parts := make([]source.Part, len(items))
	for i, it := range items {
		parts[i] = source.Part{Path: it.path}
	}
	return source.Folders(parts)
}

// RemoveFolder убирает папку-источник из каталога и хранилища.
func (s *CatalogService) RemoveFolder(ctx context.Context, actor models.User, folder string) error {
	if !actor.IsAdmin() {
		return apperror.ErrForbidden
	}

	next, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		removed, err := st.RemoveFolder(folder)
		if err != nil {
			return st, err
		}
		if err := s.dirs.Replace(ctx, removed.SourceFolders()); err != nil {
			return st, err
		}
		return removed, nil
	})
	if err != nil {
		return err
	}

	if err := s.files.RemoveFolder(ctx, folder); err != nil {
		logger.Entry(logrus.Fields{"folder": folder, "error": err}).Warn("catalog: файлы папки не удалены")
	}
	if s.cache != nil {
		s.cache.InvalidateByPrefix(FolderPreviewPrefix(folder))
	}

	_ = s.events.Broadcast(ws.EventCatalogUpdated, map[string]any{"removed": folder, "shots": len(next.Shots)})
	return nil
}

// Folders возвращает папки-источники каталога.
func (s *CatalogService) Folders() []string {
	return s.store.Load().SourceFolders()
}

// Shots возвращает шоты, прошедшие фильтр.
func (s *CatalogService) Shots(fc catalog.FilterContext) []models.Shot {
	st := s.store.Load()
	return catalog.Filter(st.Shots, st.Bind(fc))
}

// Shot возвращает шот по ID.
func (s *CatalogService) Shot(id string) (models.Shot, error) {
	shot, ok := s.store.Load().Shot(id)
	if !ok {
		return models.Shot{}, apperror.ErrShotNotFound
	}
	return shot, nil
}

// Prompt возвращает текстовый файл шота.
func (s *CatalogService) Prompt(shotID, name string) (models.PromptFile, error) {
	shot, err := s.Shot(shotID)
	if err != nil {
		return models.PromptFile{}, err
	}
	p, ok := shot.Prompt(name)
	if !ok {
		return models.PromptFile{}, apperror.Newf(apperror.ErrCodeNotFound, "файл %q не найден в шоте", name)
	}
	return p, nil
}

// PlainPrompt возвращает текстовый файл шота без разметки.
func (s *CatalogService) PlainPrompt(shotID, name string) (string, error) {
	p, err := s.Prompt(shotID, name)
	if err != nil {
		return "", err
	}
	if s.cache == nil {
		return preview.Plain(p)
	}
	return s.cache.PlainPrompt(shotID, p)
}

// SetCover выбирает обложку шота и сохраняет выбор в настройках.
func (s *CatalogService) SetCover(ctx context.Context, shotID, fileName string) (models.Shot, error) {
	next, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		updated, err := st.SetCover(shotID, fileName)
		if err != nil {
			return st, err
		}
		if err := s.persistSettings(ctx, updated.Covers, s.currentPrefs()); err != nil {
			return st, err
		}
		return updated, nil
	})
	if err != nil {
		return models.Shot{}, err
	}

	shot, _ := next.Shot(shotID)
	_ = s.events.Broadcast(ws.EventCatalogUpdated, map[string]any{"cover": shotID})
	return shot, nil
}

func (s *CatalogService) persistSettings(ctx context.Context, covers models.ShotCovers, prefs models.Settings) error {
	doc := models.Settings{
		ShotCovers:       covers,
		ActivePlaylistID: prefs.ActivePlaylistID,
		IsSidebarOpen:    prefs.IsSidebarOpen,
	}
	if err := s.state.Put(ctx, repository.KeySettings, doc); err != nil {
		return fmt.Errorf("catalog: сохранение настроек: %w", err)
	}
	return nil
}

func (s *CatalogService) currentPrefs() models.Settings {
	s.prefsMu.RLock()
	defer s.prefsMu.RUnlock()
	return s.prefs
}

func (s *CatalogService) setPrefs(p models.Settings) {
	s.prefsMu.Lock()
	s.prefs = p
	s.prefsMu.Unlock()
}

package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
)

// DefaultWorkers - число параллельных чтений по умолчанию.
const DefaultWorkers = 8

// Aggregator превращает плоский набор файлов в шоты.
type Aggregator struct {
	workers int
}

// NewAggregator создаёт агрегатор с ограничением параллельных чтений.
func NewAggregator(workers int) *Aggregator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Aggregator{workers: workers}
}

// pendingGroup копит файлы одного шота до классификации.
type pendingGroup struct {
	id           string
	sourceFolder string
	baseName     string
	files        []FileDescriptor
}

// promptSlot - место под содержимое текстового файла, заполняемое чтением.
type promptSlot struct {
	file   FileDescriptor
	format models.PromptFormat
	out    *models.PromptFile
}

// Aggregate группирует файлы в шоты, читает текстовые файлы и выбирает обложки.
// Возвращает шоты только после завершения всех чтений; любая ошибка чтения
// отменяет весь пакет. Результат отсортирован по ID.
func (a *Aggregator) Aggregate(ctx context.Context, files []FileDescriptor, savedCovers models.ShotCovers) ([]models.Shot, error) {
	if len(files) == 0 {
		return []models.Shot{}, nil
	}
	if strings.TrimSpace(files[0].Path()) == "" {
		return nil, apperror.ErrPathInfoUnavailable
	}

	groups := groupFiles(files)

	// Классифицируем заранее, чтобы порядок текстовых файлов не зависел от порядка завершения чтений.
	type classified struct {
		images, videos, audios, documents []models.MediaFile
		prompts                           []models.PromptFile
	}
	sorted := make([]classified, len(groups))
	var slots []promptSlot

	for gi, g := range groups {
		c := &sorted[gi]
		c.images = []models.MediaFile{}
		c.videos = []models.MediaFile{}
		c.audios = []models.MediaFile{}
		c.documents = []models.MediaFile{}

		promptCount := 0
		for _, f := range g.files {
			if Classify(fileName(f.Path())).Kind == KindPrompt {
				promptCount++
			}
		}
		c.prompts = make([]models.PromptFile, promptCount)

		pi := 0
		for _, f := range g.files {
			name := fileName(f.Path())
			cls := Classify(name)
			switch cls.Kind {
			case KindImage:
				c.images = append(c.images, mediaFile(name, f))
			case KindVideo:
				c.videos = append(c.videos, mediaFile(name, f))
			case KindAudio:
				c.audios = append(c.audios, mediaFile(name, f))
			case KindDocument:
				c.documents = append(c.documents, mediaFile(name, f))
			case KindPrompt:
				c.prompts[pi] = models.PromptFile{Name: name, Type: cls.Format}
				slots = append(slots, promptSlot{file: f, format: cls.Format, out: &c.prompts[pi]})
				pi++
			}
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.workers)
	for _, slot := range slots {
		eg.Go(func() error {
			content, err := slot.file.ReadText(egCtx)
			if err != nil {
				return apperror.Wrap(err, apperror.ErrCodeInternal, fmt.Sprintf("не удалось прочитать %s", slot.file.Path()))
			}
			slot.out.Content = content
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	shots := make([]models.Shot, 0, len(groups))
	for gi, g := range groups {
		c := sorted[gi]
		sortByName(c.images)
		sortByName(c.videos)
		sortByName(c.audios)

		shot := models.Shot{
			ID:            g.id,
			FolderID:      g.sourceFolder,
			BaseName:      g.baseName,
			ImageFiles:    c.images,
			VideoFiles:    c.videos,
			AudioFiles:    c.audios,
			DocumentFiles: c.documents,
			PromptFiles:   c.prompts,
		}
		shot.CoverURL, shot.CoverType = ResolveCover(shot, savedCovers[shot.ID])
		shots = append(shots, shot)
	}

	logger.Entry(logrus.Fields{
		"files": len(files),
		"shots": len(shots),
		"reads": len(slots),
	}).Debug("catalog: пакет агрегирован")

	return shots, nil
}

// groupFiles раскладывает файлы по ключам шотов. Группы упорядочены по ID,
// файлы внутри группы - в порядке появления.
func groupFiles(files []FileDescriptor) []*pendingGroup {
	index := make(map[string]*pendingGroup, len(files))
	groups := make([]*pendingGroup, 0, len(files))

	for _, f := range files {
		parts := strings.Split(f.Path(), "/")
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		sourceFolder := parts[0]
		base := BaseName(parts[len(parts)-1])
		if base == "" {
			continue
		}
		subpath := strings.Join(parts[1:len(parts)-1], "/")
		id := ShotID(sourceFolder, subpath, base)

		g, ok := index[id]
		if !ok {
			g = &pendingGroup{id: id, sourceFolder: sourceFolder, baseName: base}
			index[id] = g
			groups = append(groups, g)
		}
		g.files = append(g.files, f)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].id < groups[j].id })
	return groups
}

func mediaFile(name string, f FileDescriptor) models.MediaFile {
	m := models.MediaFile{Name: name, URL: f.Locator()}
	if ct, ok := f.(ContentTyper); ok {
		m.MIME = ct.ContentType()
	}
	return m
}

func sortByName(files []models.MediaFile) {
	sort.SliceStable(files, func(i, j int) bool { return files[i].Name < files[j].Name })
}

package catalog

import "github.com/ignatzorin/shotboard/internal/models"

// coverCandidates перечисляет коллекции в порядке приоритета обложки.
func coverCandidates(s models.Shot) []struct {
	files []models.MediaFile
	kind  models.CoverKind
} {
	return []struct {
		files []models.MediaFile
		kind  models.CoverKind
	}{
		{s.ImageFiles, models.CoverImage},
		{s.VideoFiles, models.CoverVideo},
		{s.AudioFiles, models.CoverAudio},
		{s.DocumentFiles, models.CoverDocument},
	}
}

// FindMedia ищет воспроизводимый файл шота по имени.
func FindMedia(s models.Shot, name string) (models.MediaFile, models.CoverKind, bool) {
	for _, c := range coverCandidates(s) {
		for _, f := range c.files {
			if f.Name == name {
				return f, c.kind, true
			}
		}
	}
	return models.MediaFile{}, models.CoverNone, false
}

// ResolveCover выбирает обложку: сохранённый файл, если он есть среди медиа,
// иначе первое изображение, видео, аудио или документ.
func ResolveCover(s models.Shot, savedName string) (string, models.CoverKind) {
	if savedName != "" {
		if f, kind, ok := FindMedia(s, savedName); ok {
			return f.URL, kind
		}
	}
	for _, c := range coverCandidates(s) {
		if len(c.files) > 0 {
			return c.files[0].URL, c.kind
		}
	}
	return "", models.CoverNone
}

// WithCover возвращает копию шота с обложкой из указанного файла.
// ok == false, если такого медиафайла в шоте нет; шот тогда не меняется.
func WithCover(s models.Shot, name string) (models.Shot, bool) {
	if _, _, found := FindMedia(s, name); !found {
		return s, false
	}
	s.CoverURL, s.CoverType = ResolveCover(s, name)
	return s, true
}

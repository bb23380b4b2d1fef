package source

import (
	"fmt"
	"mime/multipart"
	"path"
	"sort"
	"strings"

	"github.com/ignatzorin/shotboard/internal/catalog"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
)

// Поля multipart формы загрузки папки.
const (
	FilesField = "files"
	PathsField = "paths"
)

// Part - загруженный файл вместе с его относительным путём в выбранной папке.
type Part struct {
	Path   string
	Header *multipart.FileHeader
}

// Parts сопоставляет файлы формы с параллельным полем путей.
// Без путей группировка невозможна, поэтому возвращается PathInfoUnavailable.
func Parts(form *multipart.Form) ([]Part, error) {
	if form == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "пустая форма загрузки")
	}
	headers := form.File[FilesField]
	if len(headers) == 0 {
		return []Part{}, nil
	}
	paths := form.Value[PathsField]
	if len(paths) != len(headers) {
		return nil, apperror.ErrPathInfoUnavailable
	}

	parts := make([]Part, 0, len(headers))
	for i, h := range headers {
		p, err := CleanRelPath(paths[i])
		if err != nil {
			return nil, err
		}
		if i == 0 && p == "" {
			return nil, apperror.ErrPathInfoUnavailable
		}
		if p == "" {
			continue
		}
		parts = append(parts, Part{Path: p, Header: h})
	}
	return parts, nil
}

// Folders возвращает отсортированные папки-источники загрузки.
func Folders(parts []Part) []string {
	seen := make(map[string]struct{})
	for _, p := range parts {
		if f := catalog.SourceFolderOf(p.Path); f != "" {
			seen[f] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// CleanRelPath нормализует относительный путь из браузера. Пути, выходящие
// за пределы папки, отклоняются.
func CleanRelPath(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return "", nil
	}
	if strings.HasPrefix(p, "/") {
		return "", apperror.Newf(apperror.ErrCodeValidation, "путь %q должен быть относительным", p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", apperror.Newf(apperror.ErrCodeValidation, "недопустимый путь %q", p)
		}
	}
	clean := path.Clean(p)
	if clean == "." {
		return "", nil
	}
	return clean, nil
}

// String нужен для логов.
func (p Part) String() string {
	return fmt.Sprintf("%s (%d B)", p.Path, p.Header.Size)
}

// Package source строит дескрипторы файлов для агрегатора из каталогов и загрузок.
package source

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ignatzorin/shotboard/internal/catalog"
)

// MediaPrefix - префикс локаторов файлов, раздаваемых сервером.
const MediaPrefix = "/media/"

// MediaURL строит локатор для пути вида <папка>/<подпуть>/<файл>.
func MediaURL(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return MediaPrefix + strings.Join(segments, "/")
}

// DirFile - файл в локальном каталоге.
type DirFile struct {
	path    string
	abs     string
	locator string
}

var (
	_ catalog.FileDescriptor = DirFile{}
	_ catalog.ContentTyper   = DirFile{}
)

// NewDirFile создаёт дескриптор; locator по умолчанию - MediaURL(path).
func NewDirFile(p, abs string) DirFile {
	return DirFile{path: p, abs: abs, locator: MediaURL(p)}
}

func (f DirFile) Path() string        { return f.path }
func (f DirFile) Locator() string     { return f.locator }
func (f DirFile) ContentType() string { return MIME(f.path) }

// AbsPath возвращает путь файла на диске.
func (f DirFile) AbsPath() string { return f.abs }

// ReadText читает файл целиком.
func (f DirFile) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(f.abs)
	if err != nil {
		return "", fmt.Errorf("source: чтение %s: %w", f.path, err)
	}
	return string(raw), nil
}

// ScanDir обходит dir и возвращает дескрипторы с путями <folder>/<относительный путь>.
// Скрытые файлы и каталоги пропускаются. Результат отсортирован по пути.
func ScanDir(dir, folder string) ([]catalog.FileDescriptor, error) {
	dir = filepath.Clean(dir)
	if folder == "" {
		folder = filepath.Base(dir)
	}

	found := make([]DirFile, 0, 128)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p != dir && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		found = append(found, NewDirFile(path.Join(folder, filepath.ToSlash(rel)), p))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("source: обход %s: %w", dir, err)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].path < found[j].path })

	out := make([]catalog.FileDescriptor, len(found))
	for i, f := range found {
		out[i] = f
	}
	return out, nil
}

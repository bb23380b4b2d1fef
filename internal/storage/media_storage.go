package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ignatzorin/shotboard/internal/catalog"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/source"
)

// sniffLen - сколько байт нужно filetype для распознавания.
const sniffLen = 262

// MediaStorage хранит загруженные папки на диске как <root>/<папка>/<подпуть>.
type MediaStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewMediaStorage создаёт файловое хранилище.
func NewMediaStorage(rootPath string, maxUploadMB int64) (*MediaStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &MediaStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Root возвращает корень хранилища.
func (s *MediaStorage) Root() string {
	return s.rootPath
}

// Resolve переводит относительный путь в путь на диске, не выходя за корень.
func (s *MediaStorage) Resolve(relPath string) (string, error) {
	clean, err := source.CleanRelPath(relPath)
	if err != nil {
		return "", err
	}
	if clean == "" {
		return "", apperror.New(apperror.ErrCodeValidation, "пустой путь")
	}
	return filepath.Join(s.rootPath, filepath.FromSlash(clean)), nil
}

// Save сохраняет файл по относительному пути и возвращает его дескриптор.
func (s *MediaStorage) Save(ctx context.Context, relPath string, r io.Reader) (source.DirFile, int64, error) {
	if err := ctx.Err(); err != nil {
		return source.DirFile{}, 0, err
	}

	targetPath, err := s.Resolve(relPath)
	if err != nil {
		return source.DirFile{}, 0, err
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return source.DirFile{}, 0, fmt.Errorf("storage: не удалось создать каталог: %w", err)
	}

	br := bufio.NewReaderSize(r, sniffLen)
	head, _ := br.Peek(sniffLen)
	if err := source.CheckContent(relPath, head); err != nil {
		return source.DirFile{}, 0, err
	}

	tempPath := targetPath + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return source.DirFile{}, 0, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limitedReader := io.LimitedReader{R: br, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limitedReader)
	if err != nil {
		_ = os.Remove(tempPath)
		return source.DirFile{}, 0, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return source.DirFile{}, 0, apperror.Newf(apperror.ErrCodeValidation, "размер файла %s превышает лимит %d байт", relPath, s.maxUploadBytes)
	}

	if err := f.Close(); err != nil {
		return source.DirFile{}, 0, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return source.DirFile{}, 0, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	clean, _ := source.CleanRelPath(relPath)
	return source.NewDirFile(clean, targetPath), written, nil
}

// Scan возвращает дескрипторы сохранённой папки.
func (s *MediaStorage) Scan(folder string) ([]catalog.FileDescriptor, error) {
	dir, err := s.Resolve(folder)
	if err != nil {
		return nil, err
	}
	return source.ScanDir(dir, folder)
}

// Folders перечисляет сохранённые папки.
func (s *MediaStorage) Folders() ([]string, error) {
	entries, err := os.ReadDir(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("storage: чтение %s: %w", s.rootPath, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// RemoveFolder удаляет папку из хранилища целиком.
func (s *MediaStorage) RemoveFolder(ctx context.Context, folder string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := s.Resolve(folder)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("storage: не удалось удалить папку: %w", err)
	}
	return nil
}

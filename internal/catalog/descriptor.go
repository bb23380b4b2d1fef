package catalog

import (
	"context"
	"strings"
)

// FileDescriptor - один файл входного пакета агрегации.
type FileDescriptor interface {
	// Path возвращает иерархический путь через "/"; первый сегмент - папка-источник.
	Path() string
	// Locator возвращает непрозрачную ссылку на содержимое файла.
	Locator() string
	// ReadText читает содержимое файла целиком.
	ReadText(ctx context.Context) (string, error)
}

// ContentTyper может реализовать дескриптор, если знает MIME тип содержимого.
type ContentTyper interface {
	ContentType() string
}

// ShotID строит составной ключ шота: <папка>/<подпуть>/<базовое имя>.
func ShotID(sourceFolder, subpath, baseName string) string {
	if subpath == "" {
		return sourceFolder + "/" + baseName
	}
	return sourceFolder + "/" + subpath + "/" + baseName
}

// BaseName отрезает последнее расширение. Имя без точки даёт пустую строку.
func BaseName(fileName string) string {
	i := strings.LastIndexByte(fileName, '.')
	if i < 0 {
		return ""
	}
	return fileName[:i]
}

// SourceFolderOf возвращает первый сегмент пути.
func SourceFolderOf(path string) string {
	folder, _, _ := strings.Cut(path, "/")
	return folder
}

// fileName возвращает последний сегмент пути.
func fileName(path string) string {
	return path[strings.LastIndexByte(path, '/')+1:]
}

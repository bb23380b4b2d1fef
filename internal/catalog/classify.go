// Package catalog собирает шоты из плоского набора файлов и фильтрует их.
package catalog

import (
	"sort"
	"strings"

	"github.com/ignatzorin/shotboard/internal/models"
)

// FileKind - класс файла, определяемый только расширением.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindImage
	KindVideo
	KindAudio
	KindDocument
	KindPrompt
)

func (k FileKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindDocument:
		return "document"
	case KindPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// Classification - результат поиска в таблице расширений.
type Classification struct {
	Kind   FileKind
	Format models.PromptFormat
}

// extensionTable - единственный источник правды для классификации.
var extensionTable = map[string]Classification{
	"jpg":  {Kind: KindImage},
	"jpeg": {Kind: KindImage},
	"png":  {Kind: KindImage},
	"webp": {Kind: KindImage},
	"gif":  {Kind: KindImage},
	"svg":  {Kind: KindImage},
	"avif": {Kind: KindImage},

	"mp4":   {Kind: KindVideo},
	"webm":  {Kind: KindVideo},
	"ogv":   {Kind: KindVideo},
	"mpeg4": {Kind: KindVideo},

	"mp3": {Kind: KindAudio},
	"wav": {Kind: KindAudio},

	"pdf": {Kind: KindDocument},

	"json":     {Kind: KindPrompt, Format: models.PromptJSON},
	"txt":      {Kind: KindPrompt, Format: models.PromptText},
	"doc":      {Kind: KindPrompt, Format: models.PromptDoc},
	"docx":     {Kind: KindPrompt, Format: models.PromptDocx},
	"yaml":     {Kind: KindPrompt, Format: models.PromptYAML},
	"html":     {Kind: KindPrompt, Format: models.PromptHTML},
	"fountain": {Kind: KindPrompt, Format: models.PromptFountain},
}

// Extension возвращает расширение имени файла в нижнем регистре без точки.
// Для имени без точки возвращается пустая строка.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// Classify определяет класс файла по имени.
func Classify(name string) Classification {
	c, ok := extensionTable[Extension(name)]
	if !ok {
		return Classification{Kind: KindUnknown}
	}
	return c
}

// Extensions возвращает известные расширения указанного класса.
func Extensions(kind FileKind) []string {
	out := make([]string, 0, 8)
	for ext, c := range extensionTable {
		if c.Kind == kind {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

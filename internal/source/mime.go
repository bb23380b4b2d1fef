package source

import (
	"mime"
	"strings"

	"github.com/h2non/filetype"

	"github.com/ignatzorin/shotboard/internal/catalog"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
)

const defaultMIME = "application/octet-stream"

// textMIME используется для текстовых файлов-спутников.
const textMIME = "text/plain; charset=utf-8"

// MIME определяет тип содержимого по расширению имени файла.
func MIME(name string) string {
	ext := catalog.Extension(name)
	if ext == "" {
		return defaultMIME
	}
	if t := filetype.GetType(ext); t != filetype.Unknown && t.MIME.Value != "" {
		return t.MIME.Value
	}
	if typ := mime.TypeByExtension("." + ext); typ != "" {
		return typ
	}
	if catalog.Classify(name).Kind == catalog.KindPrompt {
		return textMIME
	}
	return defaultMIME
}

// families - допустимые семейства MIME для распознанного содержимого.
var families = map[catalog.FileKind][]string{
	catalog.KindImage:    {"image"},
	catalog.KindVideo:    {"video", "audio"},
	catalog.KindAudio:    {"audio", "video"},
	catalog.KindDocument: {"application"},
}

// CheckContent сверяет начало файла с его расширением. Нераспознанное
// содержимое пропускается: проверяется только явное противоречие.
func CheckContent(name string, head []byte) error {
	allowed, ok := families[catalog.Classify(name).Kind]
	if !ok || len(head) == 0 {
		return nil
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return nil
	}
	for _, f := range allowed {
		if kind.MIME.Type == f {
			return nil
		}
	}
	return apperror.Newf(apperror.ErrCodeValidation, "содержимое %s не соответствует расширению (%s)", name, kind.MIME.Value)
}

// isHidden сообщает, что сегмент пути служебный (.DS_Store, .git и т.п.).
func isHidden(segment string) bool {
	return strings.HasPrefix(segment, ".")
}

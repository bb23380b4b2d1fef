package models

// CoverKind - тип обложки шота.
type CoverKind string

const (
	CoverImage    CoverKind = "image"
	CoverVideo    CoverKind = "video"
	CoverAudio    CoverKind = "audio"
	CoverDocument CoverKind = "document"
	CoverNone     CoverKind = "none"
)

// PromptFormat - формат текстового файла-спутника.
type PromptFormat string

const (
	PromptJSON     PromptFormat = "json"
	PromptText     PromptFormat = "text"
	PromptDoc      PromptFormat = "doc"
	PromptDocx     PromptFormat = "docx"
	PromptYAML     PromptFormat = "yaml"
	PromptHTML     PromptFormat = "html"
	PromptFountain PromptFormat = "fountain"
)

// MediaFile - воспроизводимый файл шота. URL - непрозрачный локатор содержимого.
type MediaFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	MIME string `json:"mime,omitempty"`
}

// PromptFile - текстовый файл шота, содержимое прочитано при агрегации.
type PromptFile struct {
	Name    string       `json:"name"`
	Content string       `json:"content"`
	Type    PromptFormat `json:"type"`
}

// Shot - логическая группа файлов с общим базовым именем внутри папки-источника.
type Shot struct {
	ID            string       `json:"id"`
	FolderID      string       `json:"folderId"`
	BaseName      string       `json:"baseName"`
	ImageFiles    []MediaFile  `json:"imageFiles"`
	VideoFiles    []MediaFile  `json:"videoFiles"`
	AudioFiles    []MediaFile  `json:"audioFiles"`
	DocumentFiles []MediaFile  `json:"documentFiles"`
	PromptFiles   []PromptFile `json:"promptFiles"`
	CoverURL      string       `json:"coverUrl"`
	CoverType     CoverKind    `json:"coverType"`
}

// FileNames возвращает имена всех файлов шота во всех коллекциях.
func (s Shot) FileNames() []string {
	names := make([]string, 0, len(s.ImageFiles)+len(s.VideoFiles)+len(s.AudioFiles)+len(s.DocumentFiles)+len(s.PromptFiles))
	for _, group := range [][]MediaFile{s.ImageFiles, s.VideoFiles, s.AudioFiles, s.DocumentFiles} {
		for _, f := range group {
			names = append(names, f.Name)
		}
	}
	for _, p := range s.PromptFiles {
		names = append(names, p.Name)
	}
	return names
}

// Prompt возвращает текстовый файл по имени.
func (s Shot) Prompt(name string) (PromptFile, bool) {
	for _, p := range s.PromptFiles {
		if p.Name == name {
			return p, true
		}
	}
	return PromptFile{}, false
}

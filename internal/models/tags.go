package models

// Tags сопоставляет ID шота с отсортированным списком тегов.
// Шот без тегов отсутствует в карте.
type Tags map[string][]string

// Clone копирует карту; списки тегов разделяются, так как не меняются на месте.
func (t Tags) Clone() Tags {
	out := make(Tags, len(t))
	for id, list := range t {
		out[id] = list
	}
	return out
}

// ShotCovers сопоставляет ID шота с именем выбранного файла обложки.
type ShotCovers map[string]string

// Clone копирует карту обложек.
func (c ShotCovers) Clone() ShotCovers {
	out := make(ShotCovers, len(c))
	for id, name := range c {
		out[id] = name
	}
	return out
}

// TagDocument - документ тегов для синхронизации.
type TagDocument struct {
	Tags          Tags     `json:"tags"`
	AllGlobalTags []string `json:"allGlobalTags"`
}

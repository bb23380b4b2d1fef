package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/shotboard/internal/models"
)

func shot(id, folder string, names ...string) models.Shot {
	s := models.Shot{ID: id, FolderID: folder}
	for _, n := range names {
		switch Classify(n).Kind {
		case KindImage:
			s.ImageFiles = append(s.ImageFiles, models.MediaFile{Name: n})
		case KindVideo:
			s.VideoFiles = append(s.VideoFiles, models.MediaFile{Name: n})
		case KindPrompt:
			s.PromptFiles = append(s.PromptFiles, models.PromptFile{Name: n})
		}
	}
	return s
}

func ids(shots []models.Shot) []string {
	out := make([]string, len(shots))
	for i, s := range shots {
		out[i] = s.ID
	}
	return out
}

func fixture() ([]models.Shot, models.Tags, models.Playlists) {
	shots := []models.Shot{
		shot("A/1", "A", "1.png"),
		shot("A/2", "A", "2.mp4"),
		shot("B/3", "B", "3.jpg", "3.txt"),
		shot("B/4", "B", "4.PNG"),
	}
	shots[2].PromptFiles[0].Content = "A Dragon over the sea"

	tags := models.Tags{
		"A/1": {"hero", "night"},
		"A/2": {"hero"},
		"B/3": {"night"},
	}
	playlists := models.Playlists{
		"p1": {ID: "p1", Name: "Best", ShotIDs: models.StringList{"A/1", "B/3"}},
		"p2": {ID: "p2", Name: "Other", ShotIDs: models.StringList{"B/3", "B/4"}},
	}
	return shots, tags, playlists
}

func TestFilter_EmptyContextKeepsEverything(t *testing.T) {
	shots, _, _ := fixture()
	assert.Equal(t, ids(shots), ids(Filter(shots, FilterContext{})))
}

func TestFilter_Folder(t *testing.T) {
	shots, _, _ := fixture()
	assert.Equal(t, []string{"B/3", "B/4"}, ids(Filter(shots, FilterContext{ActiveFolder: "B"})))
}

func TestFilter_PlaylistAndInvertAreComplements(t *testing.T) {
	shots, tags, ps := fixture()
	fc := FilterContext{ActivePlaylist: "p1", TagsByShot: tags, PlaylistsByID: ps}

	in := ids(Filter(shots, fc))
	fc.InvertPlaylist = true
	out := ids(Filter(shots, fc))

	assert.Equal(t, []string{"A/1", "B/3"}, in)
	assert.Equal(t, []string{"A/2", "B/4"}, out)
	assert.ElementsMatch(t, ids(shots), append(in, out...))
}

func TestFilter_MissingActivePlaylistIsNoop(t *testing.T) {
	shots, tags, ps := fixture()
	fc := FilterContext{ActivePlaylist: "gone", InvertPlaylist: true, TagsByShot: tags, PlaylistsByID: ps}
	assert.Len(t, Filter(shots, fc), len(shots))
}

func TestFilter_TagsConjunctiveAndInverted(t *testing.T) {
	shots, tags, ps := fixture()
	fc := FilterContext{SelectedTags: []string{"hero", "night"}, TagsByShot: tags, PlaylistsByID: ps}
	assert.Equal(t, []string{"A/1"}, ids(Filter(shots, fc)))

	fc.InvertTags = true
	assert.Equal(t, []string{"A/2", "B/3", "B/4"}, ids(Filter(shots, fc)))
}

func TestFilter_AdvancedFacets(t *testing.T) {
	shots, tags, ps := fixture()

	tests := []struct {
		name string
		adv  models.AdvancedFilterState
		want []string
	}{
		{"folders any", models.AdvancedFilterState{Folders: []string{"A", "Z"}}, []string{"A/1", "A/2"}},
		{"tags all", models.AdvancedFilterState{Tags: []string{"night"}}, []string{"A/1", "B/3"}},
		{"playlists all", models.AdvancedFilterState{Playlists: []string{"p1", "p2"}}, []string{"B/3"}},
		{"missing playlist", models.AdvancedFilterState{Playlists: []string{"p1", "gone"}}, []string{}},
		{"formats any, case-insensitive", models.AdvancedFilterState{Formats: []string{".png"}}, []string{"A/1", "B/4"}},
		{"formats include prompts", models.AdvancedFilterState{Formats: []string{"TXT"}}, []string{"B/3"}},
		{"combined", models.AdvancedFilterState{Folders: []string{"B"}, Tags: []string{"night"}}, []string{"B/3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := FilterContext{Advanced: tt.adv, TagsByShot: tags, PlaylistsByID: ps}
			assert.Equal(t, tt.want, ids(Filter(shots, fc)))
		})
	}
}

func TestFilter_Search(t *testing.T) {
	shots, tags, ps := fixture()

	tests := []struct {
		query string
		want  []string
	}{
		{"  dragon ", []string{"B/3"}},
		{"b/", []string{"B/3", "B/4"}},
		{"HERO", []string{"A/1", "A/2"}},
		{"   ", []string{"A/1", "A/2", "B/3", "B/4"}},
		{"nothing-here", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			fc := FilterContext{SearchQuery: tt.query, TagsByShot: tags, PlaylistsByID: ps}
			assert.Equal(t, tt.want, ids(Filter(shots, fc)))
		})
	}
}

func TestFilter_AllStagesConjunctive(t *testing.T) {
	shots, tags, ps := fixture()
	fc := FilterContext{
		ActiveFolder:   "B",
		ActivePlaylist: "p2",
		SelectedTags:   []string{"night"},
		Advanced:       models.AdvancedFilterState{Formats: []string{"jpg"}},
		SearchQuery:    "dragon",
		TagsByShot:     tags,
		PlaylistsByID:  ps,
	}
	got := Filter(shots, fc)
	assert.Equal(t, []string{"B/3"}, ids(got))
	for _, s := range shots {
		assert.Equal(t, Match(s, fc), s.ID == "B/3")
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	shots, tags, ps := fixture()
	before := ids(shots)
	_ = Filter(shots, FilterContext{ActiveFolder: "A", TagsByShot: tags, PlaylistsByID: ps})
	assert.Equal(t, before, ids(shots))
}

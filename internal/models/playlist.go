package models

// Playlist - именованная упорядоченная подборка шотов.
type Playlist struct {
	ID         string     `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Owner      string     `db:"owner" json:"owner"`
	ShotIDs    StringList `db:"shot_ids" json:"shotIds"`
	SharedWith StringList `db:"shared_with" json:"sharedWith"`
}

// Contains сообщает, входит ли шот в плейлист.
func (p Playlist) Contains(shotID string) bool {
	for _, id := range p.ShotIDs {
		if id == shotID {
			return true
		}
	}
	return false
}

// IsSharedWith сообщает, открыт ли плейлист пользователю.
func (p Playlist) IsSharedWith(email string) bool {
	for _, e := range p.SharedWith {
		if e == email {
			return true
		}
	}
	return false
}

// Clone возвращает глубокую копию плейлиста.
func (p Playlist) Clone() Playlist {
	p.ShotIDs = append(StringList{}, p.ShotIDs...)
	p.SharedWith = append(StringList{}, p.SharedWith...)
	return p
}

// Playlists индексирует плейлисты по ID.
type Playlists map[string]Playlist

// Clone копирует карту (сами плейлисты копируются поверхностно, их срезы не меняются на месте).
func (ps Playlists) Clone() Playlists {
	out := make(Playlists, len(ps))
	for id, p := range ps {
		out[id] = p
	}
	return out
}

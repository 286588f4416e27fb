package jellyfin

import "time"

// Credentials identify one login session against one server. A value
// is created at authentication time or loaded from persisted settings
// and never mutated afterwards; re-login replaces it wholesale.
type Credentials struct {
	Host     string
	Token    string
	UserID   string
	DeviceID string
}

// Authenticated reports whether the credentials carry a token.
func (c Credentials) Authenticated() bool { return c.Token != "" }

// View is one library root as reported by /UserViews.
type View struct {
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	CollectionType string `json:"CollectionType"`
}

type viewsResponse struct {
	Items []View `json:"Items"`
}

// Track is one audio item. Immutable once decoded from a server
// response.
type Track struct {
	ID                string    `json:"Id"`
	Name              string    `json:"Name"`
	Album             string    `json:"Album"`
	AlbumID           string    `json:"AlbumId"`
	Artists           []string  `json:"Artists"`
	DateCreated       time.Time `json:"DateCreated"`
	RunTimeTicks      int64     `json:"RunTimeTicks"`
	IndexNumber       int       `json:"IndexNumber"`
	ParentIndexNumber int       `json:"ParentIndexNumber"`
	UserData          UserData  `json:"UserData"`
	NormalizationGain *float64  `json:"NormalizationGain,omitempty"`
	ProductionYear    *int      `json:"ProductionYear,omitempty"`
}

// UserData is the per-user play state attached to a track.
type UserData struct {
	PlayCount  int  `json:"PlayCount"`
	Played     bool `json:"Played"`
	IsFavorite bool `json:"IsFavorite"`
}

// Duration converts the server's 100ns ticks to a time.Duration.
func (t Track) Duration() time.Duration {
	if t.RunTimeTicks <= 0 {
		return 0
	}
	return time.Duration(t.RunTimeTicks * 100)
}

// Snapshot is the full library at a point in time. TotalRecordCount is
// the count the server reported; pages that failed to fetch are
// dropped without correcting it, so it is advisory only.
type Snapshot struct {
	Tracks           []Track `json:"Items"`
	TotalRecordCount int     `json:"TotalRecordCount"`
}

type itemsPage struct {
	Items            []Track `json:"Items"`
	TotalRecordCount int     `json:"TotalRecordCount"`
	StartIndex       int     `json:"StartIndex"`
}

// Playlist is a server-side playlist summary.
type Playlist struct {
	ID         string `json:"Id"`
	Name       string `json:"Name"`
	ChildCount int    `json:"ChildCount"`
}

type playlistsPage struct {
	Items            []Playlist `json:"Items"`
	TotalRecordCount int        `json:"TotalRecordCount"`
}

type playlistResponse struct {
	ItemIDs []string `json:"ItemIds"`
}

type authRequest struct {
	Username string `json:"Username"`
	Pw       string `json:"Pw"`
}

type authResponse struct {
	AccessToken string   `json:"AccessToken"`
	User        authUser `json:"User"`
}

type authUser struct {
	ID string `json:"Id"`
}

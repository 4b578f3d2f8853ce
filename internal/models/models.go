package models

// Track represents a song in the library catalog.
// The queue engine references tracks by ID and never mutates them.
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ArtistID    string `json:"artist_id,omitempty"`
	ArtistName  string `json:"artist_name,omitempty"`
	AlbumID     string `json:"album_id,omitempty"`
	AlbumName   string `json:"album_name,omitempty"`
	CoverPath   string `json:"cover_path,omitempty"`
	DiscNumber  int    `json:"disc_number,omitempty"`
	TrackNumber int    `json:"track_number,omitempty"`
	Duration    int    `json:"duration"` // seconds
	Path        string `json:"path,omitempty"`
}

// Album represents an album in the library catalog.
type Album struct {
	ID       string `json:"id"`
	ArtistID string `json:"artist_id,omitempty"`
	Title    string `json:"title"`
	Year     int    `json:"year,omitempty"`
}

// Artist represents an artist in the library catalog.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Playlist represents a playlist in the library catalog.
type Playlist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	TrackIDs    []string `json:"track_ids,omitempty"` // stored order
}

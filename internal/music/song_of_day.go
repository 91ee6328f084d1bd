package music

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"
)

// SongOfDay is the daily community-wide song pick.
type SongOfDay struct {
	Date        string    `json:"date"`
	TrackID     string    `json:"track_id"`
	SongName    string    `json:"song_name"`
	ArtistName  string    `json:"artist_name"`
	AlbumArtURL string    `json:"album_art_url"`
	PickedAt    time.Time `json:"picked_at"`
}

// PickFunc chooses a new song when the calendar date rolls over.
type PickFunc func(ctx context.Context) (*SongOfDay, error)

// SongOfDayStore persists the daily pick to a JSON file so it survives
// restarts. One pick per calendar date.
type SongOfDayStore struct {
	mu      sync.Mutex
	path    string
	current *SongOfDay
	now     func() time.Time
}

// NewSongOfDayStore loads any existing pick from path. A missing or
// unreadable file just means no pick yet.
func NewSongOfDayStore(path string) *SongOfDayStore {
	s := &SongOfDayStore{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	if err == nil {
		var song SongOfDay
		if json.Unmarshal(data, &song) == nil && song.Date != "" {
			s.current = &song
		}
	}
	return s
}

// Current returns today's pick, calling pick and persisting the result when
// the stored pick is missing or from an earlier date.
func (s *SongOfDayStore) Current(ctx context.Context, pick PickFunc) (*SongOfDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().Format("2006-01-02")
	if s.current != nil && s.current.Date == today {
		return s.current, nil
	}

	song, err := pick(ctx)
	if err != nil {
		return nil, err
	}
	song.Date = today
	song.PickedAt = s.now()

	data, err := json.MarshalIndent(song, "", "  ")
	if err == nil {
		// Persistence is best effort; a write failure only costs us a
		// re-pick after restart.
		_ = os.WriteFile(s.path, data, 0o600)
	}

	s.current = song
	return song, nil
}

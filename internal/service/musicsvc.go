package service

import (
	"context"
	"strings"

	"neuralserver/internal/domain"
)

type TracksStore interface {
	ListTracks(ctx context.Context, viewerID string) ([]domain.TrackView, error)
	CreateTrack(ctx context.Context, p domain.NewTrack) (domain.Track, error)
	ToggleLike(ctx context.Context, userID, trackID string) (bool, error)
	CountTracks(ctx context.Context) (int, error)
}

type MusicService struct {
	Tracks TracksStore
}

func (s *MusicService) List(ctx context.Context, viewerID string) ([]domain.TrackView, error) {
	tracks, err := s.Tracks.ListTracks(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if tracks == nil {
		tracks = []domain.TrackView{}
	}
	return tracks, nil
}

func (s *MusicService) Add(ctx context.Context, userID, title, artist, url, genre string) (domain.TrackView, error) {
	fields := map[string]string{}
	if strings.TrimSpace(title) == "" {
		fields["title"] = "required"
	}
	if strings.TrimSpace(url) == "" {
		fields["url"] = "required"
	}
	if len(fields) > 0 {
		return domain.TrackView{}, domain.NewValidationError(fields)
	}
	if artist == "" {
		artist = "Unknown"
	}
	if genre == "" {
		genre = "User Added"
	}

	t, err := s.Tracks.CreateTrack(ctx, domain.NewTrack{
		Title:   title,
		Artist:  artist,
		URL:     url,
		Genre:   genre,
		AddedBy: &userID,
	})
	if err != nil {
		return domain.TrackView{}, err
	}

	return domain.TrackView{
		ID:     t.ID,
		Title:  t.Title,
		Artist: t.Artist,
		URL:    t.URL,
		Cover:  t.Cover,
		Genre:  t.Genre,
	}, nil
}

func (s *MusicService) ToggleLike(ctx context.Context, userID, trackID string) (bool, error) {
	return s.Tracks.ToggleLike(ctx, userID, trackID)
}

// defaultStations is the starter catalog inserted into an empty system.
var defaultStations = []domain.NewTrack{
	{Title: "Lofi Hip Hop", Artist: "Lofi Girl", URL: "https://play.streamafrica.net/lofi", Genre: "Lofi"},
	{Title: "Ibiza Global", Artist: "Electronic", URL: "https://ibizaglobalradio.streaming-pro.com:8024/ibizaglobalradio.mp3", Genre: "House"},
	{Title: "Classical FM", Artist: "Orchestra", URL: "https://media-ice.musicradio.com/ClassicFMMP3", Genre: "Classic"},
	{Title: "Dance Hits", Artist: "Energy", URL: "https://stream.zeno.fm/f3wvbbqmdg8uv", Genre: "Dance"},
	{Title: "Jazz Lounge", Artist: "Relax", URL: "https://0n-jazz.radionetz.de/0n-jazz.mp3", Genre: "Jazz"},
}

// Seed inserts the default stations when the catalog is empty. It runs
// once at startup and reports how many tracks were added.
func (s *MusicService) Seed(ctx context.Context) (int, error) {
	n, err := s.Tracks.CountTracks(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for _, st := range defaultStations {
		st.Cover = "https://source.unsplash.com/random/300x300?" + st.Genre
		if _, err := s.Tracks.CreateTrack(ctx, st); err != nil {
			return 0, err
		}
	}
	return len(defaultStations), nil
}

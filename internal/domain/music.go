package domain

import "time"

type Track struct {
	ID        string
	Title     string
	Artist    string
	URL       string
	Cover     string
	Genre     string
	AddedBy   *string
	CreatedAt time.Time
}

// NewTrack carries everything needed to insert a track row.
type NewTrack struct {
	Title   string
	Artist  string
	URL     string
	Cover   string
	Genre   string
	AddedBy *string
}

// TrackView is a track projected for one viewer.
type TrackView struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	URL     string `json:"url"`
	Cover   string `json:"cover"`
	Genre   string `json:"genre"`
	IsLiked bool   `json:"isLiked"`
}

package httpapi

import (
	"net/http"
	"strings"

	"neuralserver/internal/domain"
)

func (a *api) handleMusicList(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	tracks, err := a.musicSvc.List(r.Context(), u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, tracks)
}

type addTrackRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	URL    string `json:"url"`
	Genre  string `json:"genre"`
}

func (a *api) handleMusicAdd(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req addTrackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	track, err := a.musicSvc.Add(r.Context(), u.ID, req.Title, req.Artist, req.URL, req.Genre)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, track)
}

func (a *api) handleMusicLike(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	trackID := strings.TrimSpace(r.PathValue("id"))
	if trackID == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	liked, err := a.musicSvc.ToggleLike(r.Context(), u.ID, trackID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"isLiked": liked})
}

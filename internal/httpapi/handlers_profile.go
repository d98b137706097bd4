package httpapi

import (
	"net/http"
	"strings"

	"neuralserver/internal/domain"
)

func (a *api) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	handle := strings.TrimSpace(r.PathValue("handle"))
	if handle == "" {
		WriteDomainError(w, domain.ErrNotFound)
		return
	}

	var viewerID string
	if u, ok := CurrentUser(r.Context()); ok {
		viewerID = u.ID
	}

	profile, err := a.profilesSvc.GetProfile(r.Context(), viewerID, handle)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

type meUpdateRequest struct {
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
	Status *string `json:"status"`
}

func (a *api) handleMeUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req meUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	card, err := a.profilesSvc.UpdateProfile(r.Context(), u.ID, domain.ProfileUpdate{
		Bio:    req.Bio,
		Avatar: req.Avatar,
		Status: req.Status,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, card)
}

func (a *api) handleSearch(w http.ResponseWriter, r *http.Request) {
	users, err := a.profilesSvc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

type verifyToggleRequest struct {
	Handle string `json:"handle"`
}

func (a *api) handleVerifyToggle(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req verifyToggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	verified, err := a.profilesSvc.VerifyToggle(r.Context(), u, req.Handle)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"isVerified": verified})
}

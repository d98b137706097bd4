package httpapi

import (
	"net/http"

	"neuralserver/internal/domain"
)

type friendRequestRequest struct {
	Handle string `json:"handle"`
}

func (a *api) handleFriendRequest(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req friendRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	status, err := a.friendsSvc.SendRequest(r.Context(), u.ID, req.Handle)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]domain.FriendStatus{"status": status})
}

func (a *api) handleFriendRequestsList(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	reqs, err := a.friendsSvc.ListIncoming(r.Context(), u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, reqs)
}

type friendRespondRequest struct {
	RequestID string `json:"requestId"`
	Action    string `json:"action"`
}

func (a *api) handleFriendRespond(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req friendRespondRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	err := a.friendsSvc.Respond(r.Context(), u.ID, req.RequestID, domain.RespondAction(req.Action))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type friendRemoveRequest struct {
	Handle string `json:"handle"`
}

func (a *api) handleFriendRemove(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req friendRemoveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.friendsSvc.RemoveFriend(r.Context(), u.ID, req.Handle); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

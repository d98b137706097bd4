package httpapi

import (
	"net/http"

	"neuralserver/internal/domain"
)

func (a *api) handleMessagesList(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	partnerID := r.URL.Query().Get("partner_id")
	msgs, err := a.messagesSvc.ListConversation(r.Context(), u.ID, partnerID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, msgs)
}

type sendMessageRequest struct {
	Text        string  `json:"text"`
	RecipientID *string `json:"recipientId"`
}

func (a *api) handleMessagesSend(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	view, err := a.messagesSvc.Send(r.Context(), u, req.Text, req.RecipientID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, view)
}

func (a *api) handleMessagesDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	if err := a.messagesSvc.Delete(r.Context(), u.ID, id); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

package httpapi

import (
	"net/http"

	"neuralserver/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type registerResponse struct {
	AccessToken string `json:"accessToken"`
	Handle      string `json:"handle"`
}

func (a *api) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	u, err := a.authSvc.Register(r.Context(), req.Name, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, registerResponse{AccessToken: u.AccessToken, Handle: u.Handle})
}

type loginRequest struct {
	Token    string `json:"token"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  domain.UserCard `json:"user"`
	Token string          `json:"token"`
}

func (a *api) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	var (
		u   domain.User
		err error
	)
	if req.Token != "" {
		u, err = a.authSvc.LoginWithToken(r.Context(), req.Token)
	} else {
		u, err = a.authSvc.LoginWithPassword(r.Context(), req.Login, req.Password)
	}
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	a.writeLogin(w, r, u)
}

func (a *api) writeLogin(w http.ResponseWriter, r *http.Request, u domain.User) {
	card, err := a.profilesSvc.Card(r.Context(), u, "")
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, loginResponse{User: card, Token: u.AccessToken})
}

type externalLoginRequest struct {
	IDToken string `json:"idToken"`
}

func (a *api) handleLoginGoogle(w http.ResponseWriter, r *http.Request) {
	var req externalLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	u, err := a.authSvc.LoginWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.writeLogin(w, r, u)
}

func (a *api) handleLoginApple(w http.ResponseWriter, r *http.Request) {
	var req externalLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	u, err := a.authSvc.LoginWithApple(r.Context(), req.IDToken)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.writeLogin(w, r, u)
}

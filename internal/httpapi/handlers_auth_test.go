package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"neuralserver/internal/domain"
	"neuralserver/internal/service"
)

func TestRegisterHandler(t *testing.T) {
	users := &stubUsersStore{
		t:                t,
		nameExistsFunc:   func(context.Context, string) (bool, error) { return false, nil },
		handleExistsFunc: func(context.Context, string) (bool, error) { return false, nil },
		tokenExistsFunc:  func(context.Context, string) (bool, error) { return false, nil },
		createUserFunc: func(_ context.Context, p domain.NewUser) (domain.User, error) {
			return domain.User{ID: "u1", Name: p.Name, Handle: p.Handle, AccessToken: p.AccessToken}, nil
		},
	}
	api := &api{authSvc: &service.AuthService{Users: users, TokenPrefix: "NEURAL"}}

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"name":"Neo","password":"pw"}`))
	rr := httptest.NewRecorder()
	api.handleRegister(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp registerResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Handle != "@neo" {
		t.Fatalf("handle = %q, want @neo", resp.Handle)
	}
	if !strings.HasPrefix(resp.AccessToken, "NEURAL-") {
		t.Fatalf("accessToken = %q", resp.AccessToken)
	}
}

func TestRegisterHandlerNameTaken(t *testing.T) {
	users := &stubUsersStore{
		t:              t,
		nameExistsFunc: func(context.Context, string) (bool, error) { return true, nil },
	}
	api := &api{authSvc: &service.AuthService{Users: users, TokenPrefix: "NEURAL"}}

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"name":"Neo"}`))
	rr := httptest.NewRecorder()
	api.handleRegister(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}

	var env errorEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Error.Code != "name_taken" {
		t.Fatalf("error code = %q", env.Error.Code)
	}
}

func TestRegisterHandlerBadJSON(t *testing.T) {
	api := &api{authSvc: &service.AuthService{Users: &stubUsersStore{t: t}}}

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"name":`))
	rr := httptest.NewRecorder()
	api.handleRegister(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByLoginFunc: func(context.Context, string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		},
	}
	api := &api{authSvc: &service.AuthService{Users: users}}

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"login":"neo","password":"pw"}`))
	rr := httptest.NewRecorder()
	api.handleLogin(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestLoginHandlerByToken(t *testing.T) {
	u := domain.User{ID: "u1", Name: "Neo", Handle: "@neo", AccessToken: "NEURAL-AAAA-BBBB"}
	users := &stubUsersStore{
		t: t,
		getUserByTokenFunc: func(_ context.Context, token string) (domain.User, error) {
			if token != u.AccessToken {
				return domain.User{}, domain.ErrNotFound
			}
			return u, nil
		},
		touchLastSeenFunc: func(context.Context, string, time.Time) error { return nil },
	}
	posts := &stubPostsStore{
		t:                 t,
		reputationFunc:    func(context.Context, string) (int, error) { return 4, nil },
		countByAuthorFunc: func(context.Context, string) (int, error) { return 1, nil },
	}
	friendships := &stubFriendshipsStore{
		t:                t,
		countFriendsFunc: func(context.Context, string) (int, error) { return 2, nil },
	}
	api := &api{
		authSvc:     &service.AuthService{Users: users},
		profilesSvc: &service.ProfilesService{Users: users, Posts: posts, Friendships: friendships},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"token":"NEURAL-AAAA-BBBB"}`))
	rr := httptest.NewRecorder()
	api.handleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp loginResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != u.AccessToken {
		t.Fatalf("token = %q", resp.Token)
	}
	if resp.User.Handle != "@neo" || resp.User.Reputation != 4 || resp.User.FriendsCount != 2 {
		t.Fatalf("user card = %+v", resp.User)
	}
}

package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"neuralserver/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	CORSOrigin string

	DBPing func(context.Context) error

	Auth     *service.AuthService
	Friends  *service.FriendsService
	Feed     *service.FeedService
	Messages *service.MessagesService
	Music    *service.MusicService
	Profiles *service.ProfilesService
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:      logger,
		isProd:      opts.IsProd,
		dbPing:      opts.DBPing,
		authSvc:     opts.Auth,
		friendsSvc:  opts.Friends,
		feedSvc:     opts.Feed,
		messagesSvc: opts.Messages,
		musicSvc:    opts.Music,
		profilesSvc: opts.Profiles,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", api.handleHealth)

	// Every data route needs the services, which only exist when a
	// database is configured.
	ready := api.requireServices

	mux.HandleFunc("POST /api/register", ready(api.handleRegister))
	mux.HandleFunc("POST /api/login", ready(api.handleLogin))
	mux.HandleFunc("POST /api/login/google", ready(api.handleLoginGoogle))
	mux.HandleFunc("POST /api/login/apple", ready(api.handleLoginApple))

	mux.HandleFunc("GET /api/search", ready(api.handleSearch))
	mux.HandleFunc("GET /api/users/{handle}", ready(api.optionalAuth(api.handleUserProfile)))
	mux.HandleFunc("POST /api/me/update", ready(api.requireAuth(api.handleMeUpdate)))
	mux.HandleFunc("POST /api/admin/verify_toggle", ready(api.requireAuth(api.handleVerifyToggle)))

	mux.HandleFunc("GET /api/posts", ready(api.requireAuth(api.handlePostsList)))
	mux.HandleFunc("POST /api/posts", ready(api.requireAuth(api.handlePostsCreate)))
	mux.HandleFunc("POST /api/posts/{id}/like", ready(api.requireAuth(api.handlePostLike)))
	mux.HandleFunc("POST /api/posts/{id}/comments", ready(api.requireAuth(api.handlePostComment)))

	mux.HandleFunc("POST /api/friends/request", ready(api.requireAuth(api.handleFriendRequest)))
	mux.HandleFunc("GET /api/friends/requests", ready(api.requireAuth(api.handleFriendRequestsList)))
	mux.HandleFunc("POST /api/friends/respond", ready(api.requireAuth(api.handleFriendRespond)))
	mux.HandleFunc("POST /api/friends/remove", ready(api.requireAuth(api.handleFriendRemove)))

	mux.HandleFunc("GET /api/messages", ready(api.requireAuth(api.handleMessagesList)))
	mux.HandleFunc("POST /api/messages", ready(api.requireAuth(api.handleMessagesSend)))
	mux.HandleFunc("DELETE /api/messages", ready(api.requireAuth(api.handleMessagesDelete)))

	mux.HandleFunc("GET /api/music", ready(api.requireAuth(api.handleMusicList)))
	mux.HandleFunc("POST /api/music", ready(api.requireAuth(api.handleMusicAdd)))
	mux.HandleFunc("POST /api/music/{id}/like", ready(api.requireAuth(api.handleMusicLike)))

	var h http.Handler = mux
	h = CORS(opts.CORSOrigin)(h)
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc     *service.AuthService
	friendsSvc  *service.FriendsService
	feedSvc     *service.FeedService
	messagesSvc *service.MessagesService
	musicSvc    *service.MusicService
	profilesSvc *service.ProfilesService
}

// requireServices answers 503 when the server runs without a database,
// in which case no service was ever constructed.
func (a *api) requireServices(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.authSvc == nil || a.friendsSvc == nil || a.feedSvc == nil ||
			a.messagesSvc == nil || a.musicSvc == nil || a.profilesSvc == nil {
			WriteError(w, http.StatusServiceUnavailable, "service_unavailable", "database not configured")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			WriteError(w, http.StatusServiceUnavailable, "db_down", "database unreachable")
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

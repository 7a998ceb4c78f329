package api

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/rs/cors"

	"github.com/erazemk/gotchan/internal/service"
)

// Options configures the API router.
type Options struct {
	JWTSecret string
	// CORSOrigins lists the browser origins allowed to call the API.
	// Empty disables CORS handling.
	CORSOrigins []string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Service: svc, JWTSecret: opts.JWTSecret}
	usersHandler := &UsersHandler{Service: svc}
	itemsHandler := &ItemsHandler{Service: svc}
	matchesHandler := &MatchesHandler{Service: svc}
	tradesHandler := &TradesHandler{Service: svc}

	authed := alice.New(AuthMiddleware(opts.JWTSecret, svc.DB))

	// Public.
	mux.HandleFunc("POST /api/auth/signup", authHandler.SignUp)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Session.
	mux.Handle("POST /api/auth/logout", authed.ThenFunc(authHandler.Logout))
	mux.Handle("PUT /api/auth/password", authed.ThenFunc(authHandler.ChangePassword))

	// Users.
	mux.Handle("GET /api/users/me", authed.ThenFunc(usersHandler.Me))
	mux.Handle("PATCH /api/users/me", authed.ThenFunc(usersHandler.UpdateMe))
	mux.Handle("GET /api/users/{id}", authed.ThenFunc(usersHandler.Get))
	mux.Handle("GET /api/users/{id}/items", authed.ThenFunc(usersHandler.Items))

	// Items.
	mux.Handle("POST /api/items", authed.ThenFunc(itemsHandler.Create))
	mux.Handle("GET /api/items", authed.ThenFunc(itemsHandler.Search))
	mux.Handle("GET /api/items/{id}", authed.ThenFunc(itemsHandler.Get))
	mux.Handle("PATCH /api/items/{id}", authed.ThenFunc(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", authed.ThenFunc(itemsHandler.Delete))
	mux.Handle("PUT /api/items/{id}/image", authed.ThenFunc(itemsHandler.UploadImage))
	mux.Handle("GET /api/items/{id}/image", authed.ThenFunc(itemsHandler.GetImage))

	// Matches.
	mux.Handle("GET /api/matches", authed.ThenFunc(matchesHandler.List))

	// Trades.
	mux.Handle("POST /api/trades", authed.ThenFunc(tradesHandler.Create))
	mux.Handle("GET /api/trades", authed.ThenFunc(tradesHandler.List))
	mux.Handle("GET /api/trades/{id}", authed.ThenFunc(tradesHandler.Get))
	mux.Handle("POST /api/trades/{id}/respond", authed.ThenFunc(tradesHandler.Respond))
	mux.Handle("POST /api/trades/{id}/tracking", authed.ThenFunc(tradesHandler.RegisterTracking))
	mux.Handle("POST /api/trades/{id}/confirm", authed.ThenFunc(tradesHandler.Confirm))
	mux.Handle("POST /api/trades/{id}/cancel", authed.ThenFunc(tradesHandler.Cancel))

	standard := alice.New(RecoverMiddleware, LoggingMiddleware)
	if len(opts.CORSOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		})
		standard = standard.Append(c.Handler)
	}
	return standard.Then(mux)
}

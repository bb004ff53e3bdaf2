// Package httpapi exposes the ledger, auth and contact services as a JSON
// API over net/http.
package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/housesplit/internal/auth"
	"github.com/mmynk/housesplit/internal/middleware"
	"github.com/mmynk/housesplit/internal/service"
)

// Server routes HTTP requests to the services.
type Server struct {
	ledger     *service.Ledger
	auth       *service.AuthService
	contact    *service.ContactService
	jwtManager *auth.JWTManager
	corsOrigin string
}

// Option customizes a Server.
type Option func(*Server)

// WithCORSOrigin allows browser calls from origin.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

// NewServer wires the services into a Server.
func NewServer(ledger *service.Ledger, authSvc *service.AuthService, contact *service.ContactService, jwtManager *auth.JWTManager, opts ...Option) *Server {
	s := &Server{
		ledger:     ledger,
		auth:       authSvc,
		contact:    contact,
		jwtManager: jwtManager,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the full route table wrapped in the standard middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	protected := middleware.RequireAuth(s.jwtManager)

	mux.HandleFunc("GET /healthz", s.healthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/register", s.register)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.Handle("GET /api/auth/me", protected(http.HandlerFunc(s.me)))
	mux.HandleFunc("POST /api/contact", s.submitContact)

	mux.Handle("POST /api/groups", protected(http.HandlerFunc(s.createGroup)))
	mux.Handle("GET /api/groups", protected(http.HandlerFunc(s.listGroups)))
	mux.Handle("GET /api/groups/{groupID}", protected(http.HandlerFunc(s.getGroup)))
	mux.Handle("POST /api/groups/{groupID}/members", protected(http.HandlerFunc(s.addMembers)))
	mux.Handle("POST /api/groups/{groupID}/expenses", protected(http.HandlerFunc(s.addExpense)))
	mux.Handle("GET /api/groups/{groupID}/expenses", protected(http.HandlerFunc(s.listExpenses)))
	mux.Handle("POST /api/groups/{groupID}/settlements", protected(http.HandlerFunc(s.recordSettlement)))
	mux.Handle("GET /api/groups/{groupID}/settlements", protected(http.HandlerFunc(s.listSettlements)))
	mux.Handle("GET /api/groups/{groupID}/balances", protected(http.HandlerFunc(s.balances)))
	mux.Handle("GET /api/groups/{groupID}/summary", protected(http.HandlerFunc(s.summary)))
	mux.Handle("GET /api/groups/{groupID}/summary/monthly", protected(http.HandlerFunc(s.monthlySummary)))

	return middleware.Chain(mux,
		middleware.Metrics,
		middleware.Logging,
		middleware.CORS(s.corsOrigin),
	)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

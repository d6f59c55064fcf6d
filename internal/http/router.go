package http

import (
	"net/http"
	"strings"
	"time"

	"talentbridge/internal/http/handlers"
	"talentbridge/internal/http/metrics"
	httpmw "talentbridge/internal/http/middleware"
)

type RouterDependencies struct {
	ProposalHandler *handlers.ProposalHandler
	MetricsHandler  *handlers.MetricsHandler
	AuthMiddleware  *httpmw.AuthMiddleware
	Metrics         *metrics.Collector
	RequestTimeout  time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		}

		if strings.HasPrefix(path, "/proposals") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodGet && path == "/proposals":
		r.deps.ProposalHandler.List(w, req)
		return
	case req.Method == http.MethodGet && path == "/proposals/summary":
		r.deps.ProposalHandler.Summary(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/proposals/") && strings.HasSuffix(path, "/accept"):
		r.deps.ProposalHandler.Accept(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/proposals/") && strings.HasSuffix(path, "/decline"):
		r.deps.ProposalHandler.Decline(w, req)
		return
	}

	http.NotFound(w, req)
}

package http

import (
	"net/http"
	"strings"
	"time"

	"hirepath/internal/http/handlers"
	"hirepath/internal/http/metrics"
	httpmw "hirepath/internal/http/middleware"
)

type RouterDependencies struct {
	StageHandler       *handlers.StageHandler
	ApplicationHandler *handlers.ApplicationHandler
	InterviewHandler   *handlers.InterviewHandler
	MetricsHandler     *handlers.MetricsHandler
	Metrics            *metrics.Collector
	RequestTimeout     time.Duration
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
		case req.Method == http.MethodGet && path == "/stages":
			r.deps.StageHandler.List(w, req)
			return
		case req.Method == http.MethodPost && path == "/applications":
			r.deps.ApplicationHandler.Intake(w, req)
			return
		case req.Method == http.MethodGet && path == "/applications":
			r.deps.ApplicationHandler.List(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/history"):
			r.deps.ApplicationHandler.History(w, req)
			return
		case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/stage"):
			r.deps.ApplicationHandler.AdvanceStage(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/discard"):
			r.deps.ApplicationHandler.Discard(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/reassign"):
			r.deps.ApplicationHandler.Reassign(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/"):
			r.deps.ApplicationHandler.Get(w, req)
			return
		case req.Method == http.MethodPost && path == "/interviews":
			r.deps.InterviewHandler.Propose(w, req)
			return
		case req.Method == http.MethodGet && path == "/interviews":
			r.deps.InterviewHandler.List(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/interviews/") && strings.HasSuffix(path, "/select-slot"):
			r.deps.InterviewHandler.SelectSlot(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/interviews/") && strings.HasSuffix(path, "/reschedule"):
			r.deps.InterviewHandler.Reschedule(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/interviews/") && strings.HasSuffix(path, "/confirm-attendance"):
			r.deps.InterviewHandler.ConfirmAttendance(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/interviews/") && strings.HasSuffix(path, "/cancel"):
			r.deps.InterviewHandler.Cancel(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/interviews/") && strings.HasSuffix(path, "/complete"):
			r.deps.InterviewHandler.Complete(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/interviews/"):
			r.deps.InterviewHandler.Get(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

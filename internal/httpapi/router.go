// Package httpapi exposes the daemon's local HTTP surface: session commands,
// profile sync, job postings and applications, and SSE streams mirroring the
// observable state.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"alumnihub/internal/jobs"
	"alumnihub/internal/profile"
	"alumnihub/internal/session"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Session *session.Machine
	Profile *profile.Synchronizer
	Jobs    *jobs.Service
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:     logger,
		isProd:     opts.IsProd,
		dbPing:     opts.DBPing,
		machine:    opts.Session,
		profileSvc: opts.Profile,
		jobsSvc:    opts.Jobs,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", api.handleHealthz)

	if api.machine == nil {
		mux.HandleFunc("/v1/session", handleNotImplemented)
		mux.HandleFunc("/v1/session/", handleNotImplemented)
	} else {
		mux.HandleFunc("GET /v1/session", api.handleSessionState)
		mux.HandleFunc("GET /v1/session/stream", api.handleSessionStream)
		mux.HandleFunc("POST /v1/session/signup", api.handleSignUp)
		mux.HandleFunc("POST /v1/session/signin", api.handleSignIn)
		mux.HandleFunc("POST /v1/session/google", api.handleSignInGoogle)
		mux.HandleFunc("POST /v1/session/apple", api.handleSignInApple)
		mux.HandleFunc("POST /v1/session/signout", api.handleSignOut)
		mux.HandleFunc("POST /v1/session/verification-email", api.handleSendVerificationEmail)
		mux.HandleFunc("POST /v1/session/password-reset", api.handlePasswordReset)
	}

	if api.profileSvc == nil || api.machine == nil {
		mux.HandleFunc("/v1/profile", handleNotImplemented)
		mux.HandleFunc("/v1/profile/", handleNotImplemented)
	} else {
		mux.HandleFunc("GET /v1/profile", api.handleProfileGet)
		mux.HandleFunc("PUT /v1/profile", api.handleProfileSave)
		mux.HandleFunc("GET /v1/profile/stream", api.handleProfileStream)
	}

	if api.jobsSvc == nil || api.machine == nil {
		mux.HandleFunc("/v1/jobs", handleNotImplemented)
		mux.HandleFunc("/v1/jobs/", handleNotImplemented)
		mux.HandleFunc("/v1/applications", handleNotImplemented)
		mux.HandleFunc("/v1/applications/", handleNotImplemented)
	} else {
		mux.HandleFunc("GET /v1/jobs", api.handleJobsList)
		mux.HandleFunc("GET /v1/jobs/stream", api.handleJobsStream)
		mux.HandleFunc("POST /v1/jobs", api.handleJobCreate)
		mux.HandleFunc("PUT /v1/jobs/{id}", api.handleJobUpdate)
		mux.HandleFunc("DELETE /v1/jobs/{id}", api.handleJobDelete)
		mux.HandleFunc("POST /v1/jobs/{id}/applications", api.handleApplicationSubmit)
		mux.HandleFunc("GET /v1/applications", api.handleApplicationsList)
		mux.HandleFunc("GET /v1/applications/stream", api.handleApplicationsStream)
		mux.HandleFunc("POST /v1/applications/{id}/status", api.handleApplicationStatus)
		mux.HandleFunc("DELETE /v1/applications/{id}", api.handleApplicationDelete)
	}

	var h http.Handler = mux
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleNotImplemented(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotImplemented, "not_implemented", "not implemented")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	machine    *session.Machine
	profileSvc *profile.Synchronizer
	jobsSvc    *jobs.Service
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}

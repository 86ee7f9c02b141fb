// Package server wires the account and task services into one HTTP API:
// the composed GraphQL schema behind the request-context layer, plus a
// health endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/user/tasklist-go/apperror"
	"github.com/user/tasklist-go/auth"
	"github.com/user/tasklist-go/schema"
	"github.com/user/tasklist-go/todos"
)

// maxQueryDepth bounds the nesting of incoming queries.
const maxQueryDepth = 10

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// rootResolver merges the per-module resolver sets into the single root the
// schema is executed against.
type rootResolver struct {
	*auth.AccountResolvers
	*todos.TaskResolvers
}

// NewSchema composes the module fragments and binds them to the services.
// It panics if the composed schema and the resolvers disagree.
func NewSchema(accounts *auth.Service, tasks *todos.Service) *graphql.Schema {
	root := &rootResolver{
		AccountResolvers: auth.NewAccountResolvers(accounts),
		TaskResolvers:    todos.NewTaskResolvers(tasks),
	}
	return graphql.MustParseSchema(
		schema.Compose(auth.Fragment, todos.Fragment),
		root,
		graphql.MaxDepth(maxQueryDepth),
	)
}

// NewRouter builds the HTTP handler for the whole API.
func NewRouter(accounts *auth.Service, tasks *todos.Service, db Pinger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	gql := &relay.Handler{Schema: NewSchema(accounts, tasks)}
	r.With(auth.Middleware(accounts)).Post("/graphql", gql.ServeHTTP)

	r.Get("/healthz", healthHandler(db))

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.ErrorContext(ctx, "health check failed", "error", err)
			writeError(w, apperror.NewStoreError("database unavailable", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// recoverer turns a panic into a 500 with the usual error body.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				slog.ErrorContext(r.Context(), "panic", "panic", rvr, "request_id", middleware.GetReqID(r.Context()))
				writeError(w, apperror.NewInternalError("internal server error", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}

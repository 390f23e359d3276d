// main is the entry point of the student records API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Connect to (and set up) the SQLite database
//  4. Seed the bootstrap operator if it does not exist yet
//  5. Register all HTTP routes and wrap them in middleware
//  6. Start the HTTP server in a separate goroutine
//  7. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  8. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/student-records-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/student-records-api
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appauth "github.com/aanand-mishra/student-records-api/internal/auth"
	"github.com/aanand-mishra/student-records-api/internal/config"
	authhandler "github.com/aanand-mishra/student-records-api/internal/http/handlers/auth"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/student"
	"github.com/aanand-mishra/student-records-api/internal/http/middleware"
	"github.com/aanand-mishra/student-records-api/internal/storage/sqlite"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config and panics if anything is wrong.
	// The name "Must" signals: if this returns, config is guaranteed valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger (stdlib since Go 1.21).
	// Structured logging writes key=value pairs rather than plain strings,
	// making logs easy to filter/search in tools like Loki or Datadog.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting student-records-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage (Database) ──────────────────────────────────
	// sqlite.New opens the SQLite file and creates the tables.
	// We use the result through the storage.Storage INTERFACE, not
	// *sqlite.SQLite — swapping to PostgreSQL later only requires
	// changing this one line.
	store, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath))

	// ── 4. Seed the Bootstrap Operator ────────────────────────────────────
	// Idempotent: if a user with the configured seed email already
	// exists, nothing happens (and its password is NOT reset).
	created, err := appauth.EnsureSeedUser(store, types.User{
		Name:  cfg.SeedAdmin.Name,
		Email: cfg.SeedAdmin.Email,
	}, cfg.SeedAdmin.Password)
	if err != nil {
		log.Error("failed to seed operator",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	if created {
		log.Info("seed operator created", slog.String("email", cfg.SeedAdmin.Email))
	}

	verifier := appauth.NewVerifier(store)

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	// The handler functions (student.New, student.GetList, etc.) are
	// FACTORIES — they receive dependencies and return the actual
	// handler. Dependency injection via closures.
	//
	// NOTE on ordering: the ServeMux resolves specificity, so the
	// literal /api/students/export wins over /api/students/{id}.
	router := http.NewServeMux()

	router.HandleFunc("POST /api/login", authhandler.Login(verifier))
	router.HandleFunc("POST /api/logout", authhandler.Logout())

	router.HandleFunc("GET /api/statistics", student.Statistics(store))
	router.HandleFunc("GET /api/filieres", student.Filieres(store))

	router.HandleFunc("POST /api/students", student.New(store))
	router.HandleFunc("GET /api/students", student.GetList(store, cfg.DefaultPageSize))
	router.HandleFunc("GET /api/students/export", student.Export(store))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(store))
	router.HandleFunc("PUT /api/students/{id}", student.Update(store))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(store))

	// Middleware runs outermost-first: logging sees the final status
	// code whatever CORS or the handlers decide.
	handler := middleware.Logger(log)(middleware.CORS(cfg.AllowedOrigins)(router))

	// ── 6. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr, // e.g. "localhost:8082"
		Handler: handler,

		// Production hardening — set timeouts to prevent slow-client
		// attacks. The write timeout also bounds a runaway CSV export.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 7. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks forever. If we called it here in main(),
	// the graceful-shutdown code below would never run.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown()
		// is called. That's expected — not an error.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 8. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered so we don't miss the signal if main is briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	// Stop accepting new connections, wait for in-flight requests up to
	// the deadline, then exit.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}

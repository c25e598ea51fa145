package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/investthepress/backend/internal/config"
	"github.com/investthepress/backend/internal/feed"
	"github.com/investthepress/backend/internal/logger"
	"github.com/investthepress/backend/internal/models"
	"github.com/investthepress/backend/internal/pipeline"
	"github.com/investthepress/backend/internal/processing"
)

//go:embed templates/*.html
var templateFS embed.FS

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	pages, err := parseTemplates()
	if err != nil {
		log.Error("parse templates", slog.Any("err", err))
		os.Exit(1)
	}

	fetcher := feed.NewFetcher(cfg.FeedTimeout, cfg.UserAgent)
	srv := &server{
		log:    log,
		groups: cfg.Groups,
		loc:    cfg.Location,
		pipe:   pipeline.New(fetcher, cfg.PipelineOptions(), log),
		pages:  pages,
		now:    time.Now,
	}

	// Each request fetches every feed, so the write timeout has to cover a slow group.
	writeTimeout := cfg.FeedTimeout*time.Duration(len(cfg.Groups.Overall.Sources)+len(cfg.Groups.Tech.Sources)) + 15*time.Second
	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting",
			slog.String("addr", cfg.BindAddr),
			slog.Int("overall_feeds", len(cfg.Groups.Overall.Sources)),
			slog.Int("tech_feeds", len(cfg.Groups.Tech.Sources)),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type snapshotter interface {
	Snapshot(ctx context.Context, groups models.Groups, now time.Time) (pipeline.Snapshot, error)
}

type server struct {
	log    *slog.Logger
	groups models.Groups
	loc    *time.Location
	pipe   snapshotter
	pages  *template.Template
	now    func() time.Time
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status       string `json:"status"`
	OverallCount int    `json:"overall_count"`
	TechCount    int    `json:"tech_count"`
	Timestamp    string `json:"timestamp"`
	RunID        string `json:"run_id"`
}

type healthErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type articlesResponse struct {
	Overall      []models.Article `json:"overall"`
	Tech         []models.Article `json:"tech"`
	OverallCount int              `json:"overall_count"`
	TechCount    int              `json:"tech_count"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

type searchResponse struct {
	Query    string           `json:"query"`
	Count    int              `json:"count"`
	Articles []models.Article `json:"articles"`
}

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/search", s.handleSearch)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/articles", s.handleArticlesJSON)
		r.Get("/search", s.handleSearchJSON)
	})
	return r
}

func (s *server) snapshot(r *http.Request) (pipeline.Snapshot, error) {
	return s.pipe.Snapshot(r.Context(), s.groups, s.now().In(s.loc))
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.render(w, "index.html", map[string]any{
		"Overall":      snap.Overall,
		"Tech":         snap.Tech,
		"OverallCount": len(snap.Overall),
		"TechCount":    len(snap.Tech),
		"GeneratedAt":  snap.GeneratedAt,
	})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := processing.NormalizeQuery(r.URL.Query().Get("q"))

	snap, err := s.snapshot(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.render(w, "search_results.html", map[string]any{
		"Articles": pipeline.Search(snap.All(), query),
		"Query":    query,
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		s.log.Error("health check failed", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, healthErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		OverallCount: len(snap.Overall),
		TechCount:    len(snap.Tech),
		Timestamp:    s.now().In(s.loc).Format(time.RFC3339),
		RunID:        snap.RunID,
	})
}

func (s *server) handleArticlesJSON(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, articlesResponse{
		Overall:      snap.Overall,
		Tech:         snap.Tech,
		OverallCount: len(snap.Overall),
		TechCount:    len(snap.Tech),
		GeneratedAt:  snap.GeneratedAt,
	})
}

func (s *server) handleSearchJSON(w http.ResponseWriter, r *http.Request) {
	query := processing.NormalizeQuery(r.URL.Query().Get("q"))

	snap, err := s.snapshot(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	articles := pipeline.Search(snap.All(), query)
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Count: len(articles), Articles: articles})
}

func (s *server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("render template", slog.String("template", name), slog.Any("err", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("build snapshot",
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("err", err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

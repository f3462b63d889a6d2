package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gitscout/gitscout/internal/github"
	"github.com/gitscout/gitscout/internal/matching"
	"github.com/gitscout/gitscout/internal/skills"
)

// Recommender is the pipeline surface exposed over HTTP.
type Recommender interface {
	UserProfile(ctx context.Context, username string) (*github.Profile, error)
	UserRepositories(ctx context.Context, username string) (github.Repositories, error)
	UserSkills(ctx context.Context, username string) (skills.Set, error)
	Recommendations(ctx context.Context, username, owner, repo string) (*matching.Recommendations, error)
}

type Config struct {
	Port int
}

type Server struct {
	cfg         Config
	recommender Recommender
	logger      *zap.Logger
}

func New(cfg Config, recommender Recommender, logger *zap.Logger) *Server {
	return &Server{
		cfg:         cfg,
		recommender: recommender,
		logger:      logger,
	}
}

// Handler returns the routed HTTP handler. Split from Start for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/profile/{username}", s.handleProfile)
	mux.HandleFunc("GET /api/repositories/{username}", s.handleRepositories)
	mux.HandleFunc("GET /api/skills/{username}", s.handleSkills)
	mux.HandleFunc("GET /api/recommendations", s.handleRecommendations)
	return mux
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)

	s.logger.Info("starting http api", zap.String("addr", addr))

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	profile, err := s.recommender.UserProfile(r.Context(), username)
	if err != nil {
		s.logger.Error("fetching user profile failed", zap.String("username", username), zap.Error(err))
		writeError(w, http.StatusBadGateway, "could not fetch user profile")
		return
	}

	writeData(w, http.StatusOK, profile)
}

func (s *Server) handleRepositories(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	repos, err := s.recommender.UserRepositories(r.Context(), username)
	if err != nil {
		s.logger.Error("fetching user repositories failed", zap.String("username", username), zap.Error(err))
		writeError(w, http.StatusBadGateway, "could not fetch user repositories")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"username":     username,
		"count":        repos.Len(),
		"repositories": repos,
	})
}

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	userSkills, err := s.recommender.UserSkills(r.Context(), username)
	if err != nil {
		s.logger.Error("fetching user skills failed", zap.String("username", username), zap.Error(err))
		writeError(w, http.StatusBadGateway, "could not fetch user skills")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"username": username,
		"skills":   userSkills,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	username := query.Get("username")
	owner := query.Get("owner")
	repo := query.Get("repo")

	if username == "" || owner == "" || repo == "" {
		writeError(w, http.StatusBadRequest, "username, owner and repo parameters are required")
		return
	}

	recs, err := s.recommender.Recommendations(r.Context(), username, owner, repo)
	if err != nil {
		s.logger.Error("recommendation pipeline failed",
			zap.String("username", username),
			zap.String("repository", fmt.Sprintf("%s/%s", owner, repo)),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "could not compute recommendations")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"username":        username,
		"repository":      fmt.Sprintf("%s/%s", owner, repo),
		"count":           recs.Len(),
		"recommendations": recs.Items,
	})
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"data":   data,
		"status": "success",
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error":  message,
		"status": "error",
	})
}

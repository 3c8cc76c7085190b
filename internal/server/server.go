package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"EquityScreener/internal/model"
	"EquityScreener/internal/strategy"
)

const (
	requestIDHeader = "X-Request-ID"
	requestTimeout  = 60 * time.Second
)

// Runner runs one screening pass.
type Runner interface {
	Run(ctx context.Context, kind model.Strategy, live bool) (*model.Run, error)
}

// Server is the HTTP front-end over the screening service.
type Server struct {
	runner  Runner
	live    bool
	limit   int
	metrics http.Handler
}

// New creates a Server. live is the default price mode and limit the default
// number of candidates returned; metrics may be nil.
func New(runner Runner, live bool, limit int, metrics http.Handler) *Server {
	return &Server{runner: runner, live: live, limit: limit, metrics: metrics}
}

// Routes configures the gin engine.
func (s *Server) Routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestID())
	router.Use(accessLog())
	router.Use(gin.Recovery())

	router.GET("/healthz", s.health)
	router.GET("/strategies", s.strategies)
	router.GET("/screen/:strategy", s.screen)
	router.POST("/screen", s.screenForm)
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics))
	}
	return router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] http server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("[INFO] http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type strategyInfo struct {
	Name  model.Strategy `json:"name"`
	Title string         `json:"title"`
}

type screenResponse struct {
	RunID        string            `json:"run_id"`
	Strategy     model.Strategy    `json:"strategy"`
	Title        string            `json:"title"`
	Live         bool              `json:"live"`
	StartedAt    time.Time         `json:"started_at"`
	UniverseSize int               `json:"universe_size"`
	Total        int               `json:"total"`
	Candidates   []model.Candidate `json:"candidates"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) strategies(c *gin.Context) {
	out := make([]strategyInfo, 0, len(model.AllStrategies))
	for _, kind := range model.AllStrategies {
		out = append(out, strategyInfo{Name: kind, Title: kind.Title()})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) screen(c *gin.Context) {
	live := s.live
	if v := c.Query("live"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid live flag %q", v))
			return
		}
		live = parsed
	}
	limit := s.limit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = parsed
	}
	s.respond(c, c.Param("strategy"), live, limit)
}

type screenRequest struct {
	Choice string `form:"choice" json:"choice"`
	Live   *bool  `form:"live" json:"live"`
	Limit  int    `form:"limit" json:"limit"`
}

// screenForm accepts a browser form post (field "choice") as well as JSON.
func (s *Server) screenForm(c *gin.Context) {
	var req screenRequest
	if err := c.ShouldBind(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	live := s.live
	if req.Live != nil {
		live = *req.Live
	}
	limit := s.limit
	if req.Limit > 0 {
		limit = req.Limit
	}
	s.respond(c, req.Choice, live, limit)
}

func (s *Server) respond(c *gin.Context, name string, live bool, limit int) {
	kind, err := strategy.ParseStrategy(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      err.Error(),
			"title":      model.Strategy("").Title(),
			"candidates": []model.Candidate{},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()
	run, err := s.runner.Run(ctx, kind, live)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, strategy.ErrUnknownWeight) {
			status = http.StatusBadRequest
		}
		s.fail(c, status, err)
		return
	}

	cands := run.Top(limit)
	if cands == nil {
		cands = []model.Candidate{}
	}
	c.JSON(http.StatusOK, screenResponse{
		RunID:        run.ID,
		Strategy:     run.Strategy,
		Title:        run.Strategy.Title(),
		Live:         run.Live,
		StartedAt:    run.StartedAt,
		UniverseSize: run.UniverseSize,
		Total:        len(run.Candidates),
		Candidates:   cands,
	})
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	id, _ := c.Get(requestIDHeader)
	log.Printf("[ERROR] %s %s (request %v): %v", c.Request.Method, c.Request.URL.Path, id, err)
	c.JSON(status, gin.H{"error": err.Error(), "request_id": id})
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set(requestIDHeader, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[INFO] %s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

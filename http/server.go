package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageproof/pageproof"
	"github.com/pageproof/pageproof/fs"
	"github.com/pageproof/pageproof/proof"
)

// Version reported by the health endpoint.
const Version = "0.1.0"

// Reviewer runs a page review. *proof.Runner satisfies it.
type Reviewer interface {
	Review(ctx context.Context, url string, progress proof.ProgressFunc) (*proof.Result, error)
}

// Server is the dashboard API. It exposes review runs over HTTP: starting
// new runs, browsing history, and downloading correction exports.
type Server struct {
	reviewer Reviewer
	runs     pageproof.RunService
	prober   pageproof.Prober
	logger   *slog.Logger
	start    time.Time
}

// NewServer creates a Server. The reviewer may be nil, in which case run
// creation answers 503; history and export endpoints keep working.
func NewServer(reviewer Reviewer, runs pageproof.RunService, prober pageproof.Prober, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		reviewer: reviewer,
		runs:     runs,
		prober:   prober,
		logger:   logger,
		start:    time.Now(),
	}
}

// Router returns the configured gin engine.
//
// Health sits outside any future auth so monitoring probes always work.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	v1 := r.Group("/api/v1")
	v1.GET("/health", s.handleHealth)
	v1.POST("/probe", s.handleProbe)
	v1.POST("/runs", s.handleCreateRun)
	v1.GET("/runs", s.handleListRuns)
	v1.GET("/runs/:id", s.handleGetRun)
	v1.DELETE("/runs/:id", s.handleDeleteRun)
	v1.GET("/runs/:id/corrections.csv", s.handleCorrectionsCSV)

	return r
}

// errorDetail is the structured error in API responses.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse wraps an errorDetail.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// respondError maps an application error to its HTTP status and writes a
// structured JSON error body.
func (s *Server) respondError(c *gin.Context, err error) {
	code := pageproof.ErrorCode(err)
	if code == pageproof.EINTERNAL {
		s.logger.Error("internal error", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(statusFromCode(code), errorResponse{
		Error: errorDetail{Code: code, Message: pageproof.ErrorMessage(err)},
	})
}

// statusFromCode translates application error codes to HTTP status codes.
func statusFromCode(code string) int {
	switch code {
	case pageproof.EINVALID:
		return http.StatusBadRequest
	case pageproof.ENOTFOUND:
		return http.StatusNotFound
	case pageproof.ECONFLICT:
		return http.StatusConflict
	case pageproof.EUNAVAILABLE, pageproof.ECORRECTION:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger logs every request with its status and duration.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		s.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
		)
	}
}

// healthResponse is the health endpoint body.
type healthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:  "healthy",
		Uptime:  time.Since(s.start).Round(time.Second).String(),
		Version: Version,
	})
}

// probeRequest is the probe endpoint body.
type probeRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) handleProbe(c *gin.Context) {
	var req probeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, pageproof.Errorf(pageproof.EINVALID, "url required"))
		return
	}

	avail, err := s.prober.Probe(c.Request.Context(), req.URL)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}

// createRunRequest is the run creation body. Artifact and highlight choices
// stay with the CLI; the dashboard always reviews with the server defaults.
type createRunRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) handleCreateRun(c *gin.Context) {
	if s.reviewer == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{
			Error: errorDetail{Code: pageproof.EUNAVAILABLE, Message: "review is not configured on this server"},
		})
		return
	}

	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, pageproof.Errorf(pageproof.EINVALID, "url required"))
		return
	}

	result, err := s.reviewer.Review(c.Request.Context(), req.URL, nil)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result.Run)
}

func (s *Server) handleListRuns(c *gin.Context) {
	filter := pageproof.RunFilter{
		Offset: intQuery(c, "offset", 0),
		Limit:  intQuery(c, "limit", 20),
	}
	if url := c.Query("url"); url != "" {
		filter.URL = &url
	}
	if status := c.Query("status"); status != "" {
		rs := pageproof.RunStatus(status)
		filter.Status = &rs
	}

	runs, err := s.runs.FindRuns(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if runs == nil {
		runs = []*pageproof.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, err := s.runs.FindRunByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleDeleteRun(c *gin.Context) {
	if err := s.runs.DeleteRun(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCorrectionsCSV(c *gin.Context) {
	run, err := s.runs.FindRunByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="spell_check_results.csv"`)
	c.Status(http.StatusOK)
	if err := fs.WriteCorrectionsCSV(c.Writer, run.Corrections); err != nil {
		// Headers are gone; all that is left is logging the broken stream.
		s.logger.Error("write corrections csv", "run", run.ID, "error", err)
	}
}

// intQuery parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// ListenAndServe runs the server on addr until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

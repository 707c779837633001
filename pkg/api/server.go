package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hangarhq/hangar/pkg/log"
	"github.com/hangarhq/hangar/pkg/manager"
	"github.com/hangarhq/hangar/pkg/metrics"
	"github.com/hangarhq/hangar/pkg/types"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Server exposes the deployment manager over REST/JSON
type Server struct {
	manager *manager.Manager
	echo    *echo.Echo
	logger  zerolog.Logger
}

// NewServer creates a new API server
func NewServer(mgr *manager.Manager) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		manager: mgr,
		echo:    e,
		logger:  log.WithComponent("api"),
	}

	e.Use(echomw.Recover())
	e.Use(s.requestLogger())
	e.Use(requestMetrics())

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	e := s.echo

	v1 := e.Group("/v1")
	v1.POST("/deployments", s.handleDeploy)
	v1.GET("/deployments", s.handleListDeployments)
	v1.GET("/deployments/:name", s.handleGetDeployment)
	v1.DELETE("/deployments/:name", s.handleUndeploy)
	v1.GET("/deployments/:name/health", s.handleDeploymentHealth)
	v1.PUT("/deployments/:name/serving", s.handleRegisterServing)

	v1.POST("/models", s.handleRegisterModel)
	v1.GET("/models", s.handleListModels)
	v1.GET("/models/:id", s.handleGetModel)

	v1.POST("/sessions", s.handleCreateSession)
	v1.GET("/sessions", s.handleListSessions)
	v1.GET("/sessions/:id", s.handleGetSession)
	v1.PUT("/sessions/:id/complete", s.handleCompleteSession)

	v1.GET("/events", s.handleEvents)

	e.GET("/healthz", s.handleHealthz)
	e.GET("/readyz", s.handleReadyz)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("REST API listening")
	err := s.echo.Start(addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler returns the HTTP handler for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// errorResponse is the JSON error envelope
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeError maps manager errors onto the REST taxonomy: validation
// errors are 400, missing resources 404, everything else a logged 500
// with a generic message.
func (s *Server) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, manager.ErrValidation):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, manager.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		s.logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// --- Deployments ---

type deployRequest struct {
	TrainingSessionID string `json:"training_session_id"`
	DeploymentName    string `json:"deployment_name,omitempty"`
}

type deployResponse struct {
	Success    bool                  `json:"success"`
	Deployment *manager.DeployResult `json:"deployment"`
}

func (s *Server) handleDeploy(c echo.Context) error {
	var req deployRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	result, err := s.manager.Deploy(c.Request().Context(), req.TrainingSessionID, req.DeploymentName)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, deployResponse{Success: true, Deployment: result})
}

type listDeploymentsResponse struct {
	Deployments []types.DeploymentSummary `json:"deployments"`
	Count       int                       `json:"count"`
}

func (s *Server) handleListDeployments(c echo.Context) error {
	deployments, err := s.manager.ListDeployments(c.Request().Context())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, listDeploymentsResponse{
		Deployments: deployments,
		Count:       len(deployments),
	})
}

func (s *Server) handleGetDeployment(c echo.Context) error {
	cfg, err := s.manager.GetDeployment(c.Param("name"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

type undeployResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
}

func (s *Server) handleUndeploy(c echo.Context) error {
	name := c.Param("name")
	if err := s.manager.Undeploy(c.Request().Context(), name); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, undeployResponse{Success: true, Name: name})
}

func (s *Server) handleDeploymentHealth(c echo.Context) error {
	verdict, err := s.manager.HealthCheck(c.Request().Context(), c.Param("name"))
	if err != nil {
		return s.writeError(c, err)
	}
	// A degraded verdict is still a successful probe
	return c.JSON(http.StatusOK, verdict)
}

type servingRequest struct {
	HealthURL string `json:"health_url"`
}

func (s *Server) handleRegisterServing(c echo.Context) error {
	var req servingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	cfg, err := s.manager.RegisterServing(c.Request().Context(), c.Param("name"), req.HealthURL)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

// --- Models ---

func (s *Server) handleRegisterModel(c echo.Context) error {
	var model types.ModelRegistryEntry
	if err := c.Bind(&model); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := s.manager.RegisterModel(&model); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, model)
}

func (s *Server) handleListModels(c echo.Context) error {
	models, err := s.manager.ListModels()
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"models": models, "count": len(models)})
}

func (s *Server) handleGetModel(c echo.Context) error {
	model, err := s.manager.GetModel(c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, model)
}

// --- Training sessions ---

func (s *Server) handleCreateSession(c echo.Context) error {
	var session types.TrainingSession
	if err := c.Bind(&session); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := s.manager.CreateSession(&session); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

func (s *Server) handleListSessions(c echo.Context) error {
	sessions, err := s.manager.ListSessions()
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"sessions": sessions, "count": len(sessions)})
}

func (s *Server) handleGetSession(c echo.Context) error {
	session, err := s.manager.GetSession(c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleCompleteSession(c echo.Context) error {
	var result manager.SessionResult
	if err := c.Bind(&result); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	session, err := s.manager.CompleteSession(c.Param("id"), result)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// --- Operational endpoints ---

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}

func (s *Server) handleReadyz(c echo.Context) error {
	checks := make(map[string]string)
	ready := true

	if _, err := s.manager.ListModels(); err != nil {
		checks["storage"] = err.Error()
		ready = false
	} else {
		checks["storage"] = "ok"
	}

	if _, err := s.manager.DeploymentNames(); err != nil {
		checks["deployments"] = err.Error()
		ready = false
	} else {
		checks["deployments"] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}
	return c.JSON(status, map[string]any{
		"status":    state,
		"timestamp": time.Now(),
		"checks":    checks,
	})
}

// handleEvents streams deployment events as server-sent events
func (s *Server) handleEvents(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	sub := s.manager.Events().Subscribe()
	defer s.manager.Events().Unsubscribe(sub)

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sub:
			if !ok {
				return nil
			}
			if err := writeSSE(w, event); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

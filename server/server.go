package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/logger"
)

// Server is the FaceSense API server
type Server struct {
	db   *sql.DB
	echo *echo.Echo
}

// New creates a new server. The driver is "postgres" in production; tests
// pass "sqlite" with an in-memory DSN, which is why the migrations and
// queries stick to portable SQL.
func New(driver, dsn string) (*Server, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Server{db: db}

	if err := s.migrate(); err != nil {
		return nil, err
	}

	s.setupEcho()

	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Custom logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			logger.Info("HTTP Request",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("remote", req.RemoteAddr))

			err := next(c)

			res := c.Response()
			duration := time.Since(start)

			logger.Info("HTTP Response",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("size", res.Size),
				logger.F("duration", duration.String()))

			fmt.Printf("REQUEST: %s %s  status=%d  size=%d  duration=%s\n",
				req.Method, req.RequestURI, res.Status, res.Size, duration)

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	api := e.Group("/api")

	// Auth endpoints (public)
	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/google/login", s.handleGoogleLogin)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/students/", s.handleListStudents)
	protected.POST("/students/", s.handleCreateStudent)
	protected.DELETE("/students/:id", s.handleDeleteStudent)
	protected.GET("/attendance/today", s.handleTodayAttendance)
	protected.POST("/attendance/mark", s.handleMarkAttendance)
	protected.GET("/attendance/export/:format", s.handleExportAttendance)
	protected.GET("/classes/", s.handleListClasses)
	protected.POST("/classes/", s.handleCreateClass)
	protected.DELETE("/classes/:id", s.handleDeleteClass)
	protected.GET("/analytics/summary", s.handleSummary)

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

// handleSummary returns aggregate counts for the dashboard
func (s *Server) handleSummary(c echo.Context) error {
	var summary model.Summary

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM students`).Scan(&summary.Students); err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM attendance`).Scan(&summary.AttendanceRecords); err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}

	return c.JSON(http.StatusOK, summary)
}

package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

// handleListClasses returns all classes with their enrolled headcounts
func (s *Server) handleListClasses(c echo.Context) error {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, COUNT(s.id)
		FROM classes c
		LEFT JOIN students s ON s.class_name = c.name
		GROUP BY c.id, c.name
		ORDER BY c.name`)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}
	defer rows.Close()

	classes := []model.ClassInfo{}
	for rows.Next() {
		var ci model.ClassInfo
		if err := rows.Scan(&ci.ID, &ci.Name, &ci.Students); err != nil {
			c.Logger().Error("scan error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
		}
		classes = append(classes, ci)
	}

	return c.JSON(http.StatusOK, classes)
}

// handleCreateClass creates a class
func (s *Server) handleCreateClass(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "name required"})
	}

	ci := model.ClassInfo{ID: uuid.NewString(), Name: req.Name}
	_, err := s.db.Exec(`
		INSERT INTO classes (id, name, created_at) VALUES ($1, $2, $3)`,
		ci.ID, ci.Name, time.Now().UTC(),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return c.JSON(http.StatusConflict, map[string]string{"detail": "class already exists"})
		}
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}

	return c.JSON(http.StatusOK, ci)
}

// handleDeleteClass deletes a class. Students keep their class_name label.
func (s *Server) handleDeleteClass(c echo.Context) error {
	res, err := s.db.Exec(`DELETE FROM classes WHERE id = $1`, c.Param("id"))
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "class not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"detail": "deleted"})
}

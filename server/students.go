package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

// handleListStudents returns all enrolled students
func (s *Server) handleListStudents(c echo.Context) error {
	rows, err := s.db.Query(`
		SELECT id, name, roll, class_name, photo, created_at
		FROM students ORDER BY name`)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var st model.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Roll, &st.ClassName, &st.Photo, &st.CreatedAt); err != nil {
			c.Logger().Error("scan error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
		}
		students = append(students, st)
	}

	return c.JSON(http.StatusOK, students)
}

// handleCreateStudent enrolls a new student
func (s *Server) handleCreateStudent(c echo.Context) error {
	var in model.StudentIn
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid request"})
	}
	if in.Name == "" || in.Roll == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "name and roll required"})
	}

	st := model.Student{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Roll:      in.Roll,
		ClassName: in.ClassName,
		Photo:     in.Photo,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(`
		INSERT INTO students (id, name, roll, class_name, photo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		st.ID, st.Name, st.Roll, st.ClassName, st.Photo, st.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return c.JSON(http.StatusConflict, map[string]string{"detail": "roll number already enrolled"})
		}
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}

	c.Logger().Infof("Student enrolled: %s (%s)", st.Name, st.Roll)

	return c.JSON(http.StatusOK, st)
}

// handleDeleteStudent removes a student and their attendance records
func (s *Server) handleDeleteStudent(c echo.Context) error {
	id := c.Param("id")

	if _, err := s.db.Exec(`DELETE FROM attendance WHERE student_id = $1`, id); err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}

	res, err := s.db.Exec(`DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "student not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"detail": "deleted"})
}

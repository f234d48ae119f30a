package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// googleTokenInfoURL is swapped out in tests
var googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// handleLogin handles the OAuth2 password flow: the body is form-encoded,
// unlike the JSON endpoints.
func (s *Server) handleLogin(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "username and password required"})
	}

	var userID, passwordHash string
	err := s.db.QueryRow(`
		SELECT id, password_hash FROM users WHERE username = $1`,
		username,
	).Scan(&userID, &passwordHash)

	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "invalid credentials"})
	}

	token, err := s.createSession(userID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}

	c.Logger().Infof("User logged in: %s", username)

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// handleRegister handles account creation with auto-login
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid request"})
	}

	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "username and password required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "password must be at least 8 characters"})
	}
	if req.Role == "" {
		req.Role = "teacher"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Logger().Error("bcrypt error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}

	userID := uuid.NewString()
	_, err = s.db.Exec(`
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		userID, req.Username, string(hash), req.Role, time.Now().UTC(),
	)

	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return c.JSON(http.StatusConflict, map[string]string{"detail": "username already exists"})
		}
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}

	token, err := s.createSession(userID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}

	c.Logger().Infof("User registered: %s", req.Username)

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// handleGoogleLogin exchanges a Google ID credential for an API token. The
// credential is validated against Google's tokeninfo endpoint; first-time
// users get an account keyed on their email.
func (s *Server) handleGoogleLogin(c echo.Context) error {
	var req struct {
		Credential string `json:"credential"`
	}
	if err := c.Bind(&req); err != nil || req.Credential == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "credential required"})
	}

	resp, err := http.Get(googleTokenInfoURL + "?id_token=" + url.QueryEscape(req.Credential))
	if err != nil {
		c.Logger().Error("tokeninfo error:", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"detail": "could not verify credential"})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "invalid credential"})
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "invalid credential"})
	}

	var userID string
	err = s.db.QueryRow(`SELECT id FROM users WHERE username = $1`, info.Email).Scan(&userID)
	if err != nil {
		// First Google sign-in: create the account with an unusable password
		userID = uuid.NewString()
		if _, err := s.db.Exec(`
			INSERT INTO users (id, username, password_hash, role, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			userID, info.Email, "!google", "teacher", time.Now().UTC(),
		); err != nil {
			c.Logger().Error("db error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
		}
	}

	token, err := s.createSession(userID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// createSession creates a new session for a user
func (s *Server) createSession(userID string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	// Sessions expire in 30 days
	expiresAt := time.Now().UTC().Add(30 * 24 * time.Hour)

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), userID, token, expiresAt, time.Now().UTC(),
	)

	return token, err
}

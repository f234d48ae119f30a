package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestLoginSendsFormEncoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("username") != "bob" || r.PostForm.Get("password") != "secret" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok123", TokenType: "bearer"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	tok, err := c.Login(context.Background(), "bob", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.AccessToken != "tok123" {
		t.Errorf("token = %q", tok.AccessToken)
	}
}

func TestLoginFailureIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Login(context.Background(), "bob", "wrong")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Detail != "Invalid credentials" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestErrorBodyWithErrorKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "already exists"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Register(context.Background(), "bob", "pw", "")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Detail != "already exists" {
		t.Errorf("detail = %q", apiErr.Detail)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]model.Student{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("abc"))
	if _, err := c.ListStudents(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestNoAuthHeaderWhenLoggedOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected Authorization header %q", h)
		}
		json.NewEncoder(w).Encode(model.Summary{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	if _, err := c.Summary(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestTodayAttendanceDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/attendance/today" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":"a1","student_name":"Bob","student_roll":"R1","status":"Present","timestamp":"2026-02-03T09:00:00Z"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("t"))
	records, err := c.TodayAttendance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].StudentName != "Bob" || records[0].Status != "Present" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestExportAttendance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/attendance/export/csv" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("name,roll,status\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("t"))
	var buf bytes.Buffer
	n, err := c.ExportAttendance(context.Background(), "csv", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 || buf.String() != "name,roll,status\n" {
		t.Errorf("unexpected export: %q", buf.String())
	}
}

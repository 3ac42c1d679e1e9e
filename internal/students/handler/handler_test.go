package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/XXRadeonXFX/student-management-api/internal/students"
	"github.com/XXRadeonXFX/student-management-api/internal/tokens"
	"github.com/XXRadeonXFX/student-management-api/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, repo students.Repository, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	g := gin.New()
	svc := students.NewService(repo, nil, nil)
	NewStudentHandler(svc, opts).Register(g)
	return g
}

func doJSON(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestStudentHandler_CRUD(t *testing.T) {
	g := newTestEngine(t, students.NewEmptySampleRepository(), Options{})

	// create
	w := doJSON(g, http.MethodPost, "/students", `{"name":"John Doe","age":25}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created students.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "John Doe", created.Name)
	require.Equal(t, 25, created.Age)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	// get
	w = doJSON(g, http.MethodGet, "/students/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	// list
	w = doJSON(g, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []students.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	// delete
	w = doJSON(g, http.MethodDelete, "/students/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Student deleted successfully")

	// gone now
	w = doJSON(g, http.MethodGet, "/students/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Student not found")
}

func TestStudentHandler_EmptyListIsOK(t *testing.T) {
	g := newTestEngine(t, students.NewEmptySampleRepository(), Options{})
	w := doJSON(g, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestStudentHandler_CreateValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"age":25}`, "Missing required fields"},
		{"missing age", `{"name":"Jane Doe"}`, "Missing required fields"},
		{"non-numeric age", `{"name":"Jane Doe","age":"invalid"}`, "Age must be a valid number"},
		{"negative age", `{"name":"Jane Doe","age":-5}`, "Age must be between 0 and 150"},
		{"age too large", `{"name":"Jane Doe","age":151}`, "Age must be between 0 and 150"},
		{"blank name", `{"name":"   ","age":25}`, "Name cannot be empty"},
		{"empty object", `{}`, "Missing required fields"},
		{"malformed json", `{"invalid": json}`, "No JSON data provided"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestEngine(t, students.NewEmptySampleRepository(), Options{})
			w := doJSON(g, http.MethodPost, "/students", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Contains(t, w.Body.String(), tc.want)
		})
	}
}

func TestStudentHandler_AgeAsNumericString(t *testing.T) {
	g := newTestEngine(t, students.NewEmptySampleRepository(), Options{})
	w := doJSON(g, http.MethodPost, "/students", `{"name":"Jane Doe","age":"25"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created students.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, 25, created.Age)
}

func TestStudentHandler_SearchByName(t *testing.T) {
	g := newTestEngine(t, students.NewSampleRepository(), Options{})

	// case-insensitive substring
	w := doJSON(g, http.MethodGet, "/students/name/alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []students.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "Alice Johnson", list[0].Name)

	// partial match
	w = doJSON(g, http.MethodGet, "/students/name/Doe", "")
	require.Equal(t, http.StatusOK, w.Code)

	// no match -> 404
	w = doJSON(g, http.MethodGet, "/students/name/NonExistentName12345", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "No students found with the given name")
}

func TestStudentHandler_HomeAndHealth(t *testing.T) {
	g := newTestEngine(t, students.NewSampleRepository(), Options{MongoConfigured: false, Connected: false})

	w := doJSON(g, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var home map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &home))
	require.Equal(t, "operational", home["status"])
	require.Equal(t, false, home["secret_configured"])
	require.Contains(t, home["database_status"], "Sample Data")
	require.EqualValues(t, 4, home["total_students"])

	w = doJSON(g, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	require.Equal(t, "healthy", health["status"])
	require.Equal(t, "fallback_mode", health["database"])
	require.Equal(t, true, health["ready_for_deployment"])

	ts, ok := health["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
}

func TestStudentHandler_UnknownRoute(t *testing.T) {
	g := newTestEngine(t, students.NewEmptySampleRepository(), Options{})
	w := doJSON(g, http.MethodGet, "/nonexistent", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Endpoint not found")
}

func TestStudentHandler_MutatingRoutesProtected(t *testing.T) {
	const secret = "testsecret123456789012345678901234"
	ver := tokens.NewHMACVerifier(secret)
	opts := Options{Mutating: []gin.HandlerFunc{
		middleware.AuthMiddleware(ver),
		middleware.RequireRole("admin"),
	}}
	g := newTestEngine(t, students.NewEmptySampleRepository(), opts)

	// no token -> 401, and reads stay open
	w := doJSON(g, http.MethodPost, "/students", `{"name":"X","age":1}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(g, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, w.Code)

	// with an admin token the create goes through
	tok, err := tokens.GenerateAdminToken(secret, "ci", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(`{"name":"X","age":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	require.Equal(t, http.StatusCreated, rw.Code)
}

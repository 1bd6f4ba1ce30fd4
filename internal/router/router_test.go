package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/handler"
	"github.com/stemsi/student-records/internal/middleware"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/repository"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	server *httptest.Server
	client *http.Client
	repo   repository.StudentRepository
}

func newTestApp(t *testing.T, repo repository.StudentRepository) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		GinMode:       gin.TestMode,
		StoreDriver:   config.StoreMemory,
		SessionStore:  config.SessionCookie,
		SessionSecret: "test-session-secret",
		CookieSecret:  "test-cookie-secret",
		SessionMaxAge: time.Hour,
	}
	log := zerolog.New(io.Discard)

	flash := session.NewFlash(session.NewStore(cfg, nil), log)
	svc := service.NewStudentService(repo, log)
	handlers := &Handlers{
		Home:    handler.NewHomeHandler(svc, flash, log),
		Student: handler.NewStudentHandler(svc, flash, log),
		System:  handler.NewSystemHandler(cfg),
	}

	r, err := SetupRouter(handlers, cfg, middleware.NewRateLimiter(0, time.Minute), log)
	require.NoError(t, err)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		server: srv,
		repo:   repo,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (a *testApp) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// post submits a form and returns the status and redirect target.
func (a *testApp) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, resp.Header.Get("Location")
}

func (a *testApp) onlyStudent(t *testing.T) model.Student {
	t.Helper()
	list, err := a.repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	return list[0]
}

func identity(name, huid, email string) url.Values {
	return url.Values{"name": {name}, "huid": {huid}, "email": {email}}
}

func TestStudentLifecycle(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStudentRepository())

	status, body := app.get(t, "/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "are <strong>0</strong> students")

	// Create.
	status, loc := app.post(t, "/student", identity("Ada Lovelace", "40000001", "ada@college.example.edu"))
	require.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/student", loc)

	status, body = app.get(t, "/student")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, handler.MsgCreated)
	assert.Contains(t, body, "Ada Lovelace")

	_, body = app.get(t, "/student")
	assert.NotContains(t, body, handler.MsgCreated, "flash is shown once")

	_, body = app.get(t, "/")
	assert.Contains(t, body, "is <strong>1</strong> student")

	student := app.onlyStudent(t)
	detail := "/student/" + student.ID

	// Update identity.
	status, loc = app.post(t, detail, identity("Ada King", "40000001", "king@college.example.edu"))
	require.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/student", loc)

	_, body = app.get(t, "/student")
	assert.Contains(t, body, handler.MsgUpdated)

	status, body = app.get(t, detail)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Ada King")
	assert.Contains(t, body, "king@college.example.edu")
	assert.Contains(t, body, "No programs on record.")

	// Append a program.
	status, loc = app.post(t, detail+"/program", url.Values{
		"level": {"Graduate"}, "program": {"Analytical Engines"}, "status": {"In Progress"},
	})
	require.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/student", loc)

	_, body = app.get(t, detail)
	assert.Contains(t, body, "Analytical Engines")
	assert.Contains(t, body, "status-in-progress")
	assert.Len(t, app.onlyStudent(t).Academics, 1)

	// Delete.
	status, loc = app.post(t, detail+"/delete", nil)
	require.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/student", loc)

	_, body = app.get(t, "/student")
	assert.Contains(t, body, handler.MsgDeleted)
	assert.Contains(t, body, "No students yet.")

	status, body = app.get(t, detail)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "404: Student Not Found", body)
}

func TestCreateRejectsBlankFields(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStudentRepository())

	status, loc := app.post(t, "/student", identity("", "40000001", "  "))
	require.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/student/create", loc)

	status, body := app.get(t, "/student/create")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, handler.MsgCreateFailed)
	assert.Contains(t, body, "name is a required field")
	assert.Contains(t, body, "email is a required field")

	n, err := app.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateFailures(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStudentRepository())
	_, _ = app.post(t, "/student", identity("Grace Hopper", "40000002", "grace@college.example.edu"))
	_, _ = app.get(t, "/student")
	student := app.onlyStudent(t)
	detail := "/student/" + student.ID

	t.Run("BlankIdentity", func(t *testing.T) {
		status, loc := app.post(t, detail, identity("Grace", "", "grace@college.example.edu"))
		require.Equal(t, http.StatusFound, status)
		assert.Equal(t, detail, loc)

		_, body := app.get(t, detail)
		assert.Contains(t, body, handler.MsgUpdateFailed)
		assert.Equal(t, "40000002", app.onlyStudent(t).HUID)
	})

	t.Run("UnknownLevel", func(t *testing.T) {
		status, loc := app.post(t, detail+"/program", url.Values{
			"level": {"Bootcamp"}, "program": {"Go"}, "status": {"Applied"},
		})
		require.Equal(t, http.StatusFound, status)
		assert.Equal(t, detail, loc)

		_, body := app.get(t, detail)
		assert.Contains(t, body, handler.MsgUpdateFailed)
		assert.NotContains(t, body, "<td>Bootcamp</td>")
		assert.Empty(t, app.onlyStudent(t).Academics)
	})

	t.Run("MissingStudent", func(t *testing.T) {
		for _, path := range []string{
			"/student/" + uuid.NewString(),
			"/student/" + uuid.NewString() + "/program",
			"/student/not-an-id",
		} {
			resp, err := app.client.PostForm(app.server.URL+path, identity("a", "b", "c"))
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
			assert.Equal(t, "404: Student Not Found", string(body), path)
		}
	})
}

func TestDeleteMissingStudent(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStudentRepository())

	status, loc := app.post(t, "/student/"+uuid.NewString()+"/delete", nil)
	require.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/student", loc)

	_, body := app.get(t, "/student")
	assert.Contains(t, body, handler.MsgDeleteFailed)
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStudentRepository())

	for _, path := range []string{"/nope", "/student/not-an-id", "/student/" + uuid.NewString(), "/static/missing.css"} {
		status, body := app.get(t, path)
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Equal(t, "404: Student Not Found", body, path)
	}
}

func TestStaticAndHealth(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStudentRepository())

	resp, err := app.client.Get(app.server.URL + "/static/app.css")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=86400", resp.Header.Get("Cache-Control"))

	status, body := app.get(t, "/health")
	require.Equal(t, http.StatusOK, status)

	var health map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, config.StoreMemory, health["store"])
}

func TestPagesAreNotCached(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStudentRepository())

	resp, err := app.client.Get(app.server.URL + "/student")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

// downRepository fails every call as if the database were unreachable.
type downRepository struct{}

func down(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrStoreUnavailable)
}

func (downRepository) Count(context.Context) (int64, error) { return 0, down("count") }
func (downRepository) ListAll(context.Context) ([]model.Student, error) {
	return nil, down("list")
}
func (downRepository) FindByID(context.Context, string) (*model.Student, error) {
	return nil, down("find")
}
func (downRepository) Create(context.Context, *model.Student) error { return down("create") }
func (downRepository) Update(context.Context, *model.Student) error { return down("update") }
func (downRepository) DeleteByID(context.Context, string) error     { return down("delete") }

func TestStoreUnavailable(t *testing.T) {
	app := newTestApp(t, downRepository{})

	status, body := app.get(t, "/student")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Error: No students.", body)

	status, body = app.get(t, "/")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, body, "Database unavailable")

	status, _ = app.get(t, "/student/"+uuid.NewString())
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, loc := app.post(t, "/student", identity("Ada", "1", "a@b.edu"))
	require.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/student/create", loc)
	_, body = app.get(t, "/student/create")
	assert.Contains(t, body, handler.MsgCreateFailed)

	id := uuid.NewString()
	status, loc = app.post(t, "/student/"+id+"/delete", nil)
	require.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/student/"+id, loc)
}

func TestResponsesAreBrotliEncoded(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStudentRepository())
	_, _ = app.post(t, "/student", identity("Ada Lovelace", "40000001", "ada@college.example.edu"))
	student := app.onlyStudent(t)

	req, err := http.NewRequest(http.MethodGet, app.server.URL+"/student/"+student.ID, nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "br")

	resp, err := app.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "br", resp.Header.Get("Content-Encoding"))
	assert.True(t, strings.Contains(resp.Header.Get("Vary"), "Accept-Encoding"))
}

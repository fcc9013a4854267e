package auth

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhubhq/learnhub/internal/apperr"
	"github.com/learnhubhq/learnhub/internal/user"
)

func jsonRequest(method, path, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func appError(t *testing.T, err error) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*apperr.Error)
	require.True(t, ok, "expected *apperr.Error, got %T", err)
	return appErr
}

func TestRegister_Success(t *testing.T) {
	env := newTestEnv()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/api/v1/user/register",
		`{"fullName":"A","email":"A@X.com","password":"p1"}`)
	c := e.NewContext(req, rec)

	require.NoError(t, env.handler.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		User    struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "a@x.com", resp.User.Email, "email must be lowercased")
	assert.Equal(t, "USER", resp.User.Role)

	// The plaintext password must not be persisted, and no password field
	// may appear in the response.
	stored, err := env.store.GetByEmail(c.Request().Context(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", stored.PasswordHash)
	assert.True(t, VerifyPassword("p1", stored.PasswordHash))
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), stored.PasswordHash)

	// Registration logs the user in.
	cookie := rec.Header().Get(echo.HeaderSetCookie)
	assert.Contains(t, cookie, "token=")
	assert.Contains(t, cookie, "HttpOnly")
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv()
	e := echo.New()

	for _, body := range []string{
		`{}`,
		`{"fullName":"A"}`,
		`{"fullName":"A","email":"a@x.com"}`,
		`{"email":"a@x.com","password":"p1"}`,
	} {
		req, rec := jsonRequest(http.MethodPost, "/api/v1/user/register", body)
		c := e.NewContext(req, rec)

		appErr := appError(t, env.handler.Register(c))
		assert.Equal(t, http.StatusBadRequest, appErr.Status, "body %s", body)
		assert.Equal(t, "All fields are required", appErr.Message)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/api/v1/user/register",
		`{"fullName":"A","email":"a@x.com","password":"p1"}`)
	require.NoError(t, env.handler.Register(e.NewContext(req, rec)))

	req, rec = jsonRequest(http.MethodPost, "/api/v1/user/register",
		`{"fullName":"B","email":"a@x.com","password":"p2"}`)
	appErr := appError(t, env.handler.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Email already exists, please login", appErr.Message)
}

func TestRegister_WithAvatar(t *testing.T) {
	env := newTestEnv()
	e := echo.New()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("fullName", "A"))
	require.NoError(t, w.WriteField("email", "a@x.com"))
	require.NoError(t, w.WriteField("password", "p1"))
	fw, err := w.CreateFormFile("avatar", "face.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/register", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, env.handler.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, env.uploader.uploads)

	stored, err := env.store.GetByEmail(c.Request().Context(), "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Avatar.URL)
	assert.Contains(t, stored.Avatar.PublicID, "face.png")
}

func TestRegister_AvatarUploadFails(t *testing.T) {
	env := newTestEnv()
	env.uploader.uploadErr = errUpstream
	e := echo.New()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("fullName", "A"))
	require.NoError(t, w.WriteField("email", "a@x.com"))
	require.NoError(t, w.WriteField("password", "p1"))
	fw, err := w.CreateFormFile("avatar", "face.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/register", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()

	appErr := appError(t, env.handler.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "File not uploaded, please try again", appErr.Message)
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv()
	e := echo.New()
	registerUser(t, env, "a@x.com", "p1")

	req, rec := jsonRequest(http.MethodPost, "/api/v1/user/login",
		`{"email":"a@x.com","password":"p1"}`)
	c := e.NewContext(req, rec)

	require.NoError(t, env.handler.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "USER", resp.User.Role)

	// The returned token must verify against the issuer.
	claims, err := env.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, claims.Role)

	assert.Contains(t, rec.Header().Get(echo.HeaderSetCookie), "token=")
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv()
	e := echo.New()
	registerUser(t, env, "a@x.com", "p1")

	for name, body := range map[string]string{
		"missing fields": `{}`,
		"unknown email":  `{"email":"nobody@x.com","password":"p1"}`,
		"wrong password": `{"email":"a@x.com","password":"wrong"}`,
	} {
		req, rec := jsonRequest(http.MethodPost, "/api/v1/user/login", body)
		appErr := appError(t, env.handler.Login(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, appErr.Status, name)
		assert.Equal(t, "Invalid credentials", appErr.Message, name)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/logout", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, env.handler.Logout(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := rec.Header().Get(echo.HeaderSetCookie)
	assert.Contains(t, cookie, "token=")
	assert.Contains(t, cookie, "Max-Age=0")
}

func TestMe(t *testing.T) {
	env := newTestEnv()
	e := echo.New()
	u := registerUser(t, env, "a@x.com", "p1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetCurrentUser(c, u)

	require.NoError(t, env.handler.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@x.com")
	assert.NotContains(t, rec.Body.String(), u.PasswordHash)
}

func TestMe_Unauthenticated(t *testing.T) {
	env := newTestEnv()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	rec := httptest.NewRecorder()

	appErr := appError(t, env.handler.Me(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

// registerUser creates a user through the real register path and returns the
// stored record.
func registerUser(t *testing.T, env *testEnv, email, password string) *user.User {
	t.Helper()
	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/api/v1/user/register",
		`{"fullName":"A","email":"`+email+`","password":"`+password+`"}`)
	c := e.NewContext(req, rec)
	require.NoError(t, env.handler.Register(c))

	u, err := env.store.GetByEmail(c.Request().Context(), strings.ToLower(email))
	require.NoError(t, err)
	return u
}

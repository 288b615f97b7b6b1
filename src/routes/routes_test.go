package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nefllix/src/middleware"
	"nefllix/src/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type client struct {
	t       *testing.T
	router  *gin.Engine
	headers map[string]string
}

func newClient(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutil.SetupApp(t)
	testutil.SetupDB(t)

	router := gin.New()
	router.Use(middleware.CORS())
	RegisterRoutes(router)
	return &client{t: t, router: router, headers: map[string]string{}}
}

func (c *client) do(method, path string, body interface{}, extra ...string) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for i := 0; i+1 < len(extra); i += 2 {
		req.Header.Set(extra[i], extra[i+1])
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func decode(t *testing.T, raw json.RawMessage, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dest))
}

func (c *client) signIn(email string) {
	c.t.Helper()
	w, _ := c.do(http.MethodPost, "/api/v1/auth/register", gin.H{"name": "Kim", "email": email, "password": "password123"})
	require.Equal(c.t, http.StatusCreated, w.Code)

	w, env := c.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": email, "password": "password123"})
	require.Equal(c.t, http.StatusOK, w.Code)
	var login struct {
		Token   string                 `json:"token"`
		Session map[string]interface{} `json:"session"`
	}
	decode(c.t, env.Data, &login)
	require.NotEmpty(c.t, login.Token)
	require.NotContains(c.t, login.Session, "sessionToken")
	c.headers["Authorization"] = "Bearer " + login.Token
}

func TestSessionListingOmitsTokens(t *testing.T) {
	c := newClient(t)
	c.signIn("kim@example.com")
	token := c.headers["Authorization"][len("Bearer "):]

	for _, path := range []string{"/api/v1/auth/sessions", "/api/v1/auth/session"} {
		w, env := c.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.NotContains(t, string(env.Data), token, path)
		assert.NotContains(t, string(env.Data), "sessionToken", path)
	}
}

func TestCORSAllowsOnlyConfiguredOrigins(t *testing.T) {
	c := newClient(t)

	w, _ := c.do(http.MethodGet, "/api/v1/healthz", nil, "Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w, _ = c.do(http.MethodOptions, "/api/v1/auth/session", nil,
		"Origin", "https://evil.example", "Access-Control-Request-Method", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = c.do(http.MethodGet, "/api/v1/healthz", nil, "Origin", testutil.AllowedOrigin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testutil.AllowedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestHealthRoutes(t *testing.T) {
	c := newClient(t)

	for _, path := range []string{"/healthz", "/api/v1/healthz", "/readyz"} {
		w, _ := c.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestAdminRoutesNeedKey(t *testing.T) {
	c := newClient(t)
	movie := gin.H{"title": "Alien", "rating": 8.5, "genre": []string{"Horror"}}

	w, env := c.do(http.MethodPost, "/api/v1/movies", movie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, env = c.do(http.MethodPost, "/api/v1/movies", movie, middleware.AdminKeyHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = c.do(http.MethodPost, "/api/v1/movies", movie, middleware.AdminKeyHeader, testutil.AdminKey)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &created)

	w, env = c.do(http.MethodGet, "/api/v1/movies/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var details struct {
		Movie struct {
			Title string `json:"title"`
		} `json:"movie"`
	}
	decode(t, env.Data, &details)
	assert.Equal(t, "Alien", details.Movie.Title)

	w, _ = c.do(http.MethodPost, "/api/v1/movies/list", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = c.do(http.MethodPost, "/api/v1/movies", gin.H{"title": ""}, middleware.AdminKeyHeader, testutil.AdminKey)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionRoutes(t *testing.T) {
	c := newClient(t)

	w, _ := c.do(http.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c.signIn("kim@example.com")

	w, env := c.do(http.MethodGet, "/api/v1/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Email string `json:"email"`
	}
	decode(t, env.Data, &me)
	assert.Equal(t, "kim@example.com", me.Email)

	w, _ = c.do(http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = c.do(http.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLockedProfileLibrary(t *testing.T) {
	c := newClient(t)
	c.signIn("lee@example.com")

	w, env := c.do(http.MethodPost, "/api/v1/movies", gin.H{"title": "Up"}, middleware.AdminKeyHeader, testutil.AdminKey)
	require.Equal(t, http.StatusCreated, w.Code)
	var movie struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &movie)

	w, env = c.do(http.MethodPost, "/api/v1/profiles", gin.H{"name": "Kids", "pin": "2468"})
	require.Equal(t, http.StatusCreated, w.Code)
	var profile struct {
		ID       string `json:"id"`
		IsLocked bool   `json:"isLocked"`
	}
	decode(t, env.Data, &profile)
	assert.True(t, profile.IsLocked)
	base := "/api/v1/profiles/" + profile.ID

	w, _ = c.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusOK, w.Code, "locked profiles stay visible on the picker")

	w, _ = c.do(http.MethodGet, base+"/favourites", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = c.do(http.MethodPost, base+"/unlock", gin.H{"pin": "1111"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = c.do(http.MethodPost, base+"/unlock", gin.H{"pin": "2468"})
	require.Equal(t, http.StatusOK, w.Code)
	var unlock struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &unlock)
	profileHeader := []string{middleware.ProfileTokenHeader, unlock.Token}

	w, _ = c.do(http.MethodPost, base+"/favourites", gin.H{"contentId": movie.ID, "contentType": "movie"}, profileHeader...)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = c.do(http.MethodPut, base+"/watching", gin.H{"contentId": movie.ID, "contentType": "movie", "progress": 30}, profileHeader...)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = c.do(http.MethodGet, base+"/summary", nil, profileHeader...)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Summary struct {
			Favourites int64 `json:"favourites"`
			InProgress int64 `json:"inProgress"`
		} `json:"summary"`
		FavouriteIDs []string `json:"favouriteIds"`
	}
	decode(t, env.Data, &summary)
	assert.EqualValues(t, 1, summary.Summary.Favourites)
	assert.EqualValues(t, 1, summary.Summary.InProgress)
	assert.Equal(t, []string{movie.ID}, summary.FavouriteIDs)

	w, env = c.do(http.MethodGet, base+"/library/"+movie.ID, nil, profileHeader...)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Favourite bool `json:"favourite"`
		Watched   bool `json:"watched"`
		Watching  *struct {
			Progress float64 `json:"progress"`
		} `json:"watching"`
	}
	decode(t, env.Data, &status)
	assert.True(t, status.Favourite)
	assert.False(t, status.Watched)
	require.NotNil(t, status.Watching)
	assert.Equal(t, 30.0, status.Watching.Progress)

	w, _ = c.do(http.MethodPost, base+"/favourites", gin.H{"contentId": movie.ID, "contentType": "film"}, profileHeader...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

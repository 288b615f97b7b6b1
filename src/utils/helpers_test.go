package utils

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nefllix/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPaginate(t *testing.T) {
	p := Paginate(45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(45), p.TotalCount)
	require.NotNil(t, p.NextPage)
	require.NotNil(t, p.PreviousPage)
	assert.Equal(t, 3, *p.NextPage)
	assert.Equal(t, 1, *p.PreviousPage)

	last := Paginate(45, 3, 20)
	assert.Nil(t, last.NextPage)

	empty := Paginate(0, 0, 0)
	assert.Equal(t, 1, empty.CurrentPage)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Nil(t, empty.NextPage)
	assert.Nil(t, empty.PreviousPage)
}

func TestCalculateOffset(t *testing.T) {
	res := CalculateOffset(3, 10, "sideways", "")
	assert.Equal(t, 20, res.Offset)
	assert.Equal(t, "desc", res.SortBy)
	assert.Equal(t, "created_at", res.OrderBy)

	res = CalculateOffset(-1, 10, "asc", "title")
	assert.Equal(t, 0, res.Offset)
	assert.Equal(t, 1, res.CurrentPage)
	assert.Equal(t, "asc", res.SortBy)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NewNotFoundError("x")))
	assert.Equal(t, http.StatusConflict, StatusOf(fmt.Errorf("wrapped: %w", NewConflictError("dup"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func respondErrorBody(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	var logs bytes.Buffer
	prev := logger.Log
	logger.Log = logger.New(&logs, "info")
	t.Cleanup(func() { logger.Log = prev })

	dbErr := fmt.Errorf("failed to list movies: %w", errors.New(`pq: relation "movies" does not exist`))
	code, body := respondErrorBody(t, dbErr)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["error"])
	assert.Contains(t, logs.String(), "does not exist")

	code, body = respondErrorBody(t, fmt.Errorf("wrapped: %w", NewNotFoundError("movie not found")))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "movie not found", body["error"])

	assert.Equal(t, "profile locked", PublicMessage(NewForbiddenError("profile locked")))
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("boom")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)`)))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit(0, 20, 64))
	assert.Equal(t, 20, ClampLimit(65, 20, 64))
	assert.Equal(t, 64, ClampLimit(64, 20, 64))
	assert.Equal(t, 5, ClampLimit(5, 20, 64))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jo@example.com", NormalizeEmail("  Jo@Example.COM "))
}

func TestCleanStringList(t *testing.T) {
	got := CleanStringList([]string{" Drama", "drama", "", "Sci-Fi ", "  "})
	assert.Equal(t, StringList{"Drama", "Sci-Fi"}, got)
	assert.True(t, got.Contains("sci-fi"))
	assert.False(t, got.Contains("comedy"))
}

func TestStringListRoundTrip(t *testing.T) {
	v, err := StringList{"Action", "Sci Fi"}.Value()
	require.NoError(t, err)

	var back StringList
	require.NoError(t, back.Scan(v))
	assert.Equal(t, StringList{"Action", "Sci Fi"}, back)
}

func TestTokenEncryptor(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	enc, err := NewTokenEncryptor(key)
	require.NoError(t, err)

	ct, err := enc.Encrypt("ya29.secret")
	require.NoError(t, err)
	assert.NotEqual(t, "ya29.secret", ct)

	pt, err := enc.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, "ya29.secret", pt)

	empty, err := enc.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = NewTokenEncryptor(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
	_, err = enc.Decrypt("bm90LXZhbGlk")
	assert.Error(t, err)
}

func TestRandomTokenAndHash(t *testing.T) {
	a, err := RandomToken(32)
	require.NoError(t, err)
	b, err := RandomToken(32)
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, HashToken(a), HashToken(a))
	assert.NotEqual(t, HashToken(a), HashToken(b))
}

func TestPasswords(t *testing.T) {
	assert.NotNil(t, ValidatePassword("short"))
	assert.Nil(t, ValidatePassword("long enough"))

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword("correct horse", hash))
	assert.False(t, CheckPassword("wrong horse", hash))
}

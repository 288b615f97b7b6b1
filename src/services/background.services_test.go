package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nefllix/src/config"
	auth "nefllix/src/modules/auth/models"
	file "nefllix/src/modules/files/services"
	movieLib "nefllix/src/modules/movies/lib"
	movieServices "nefllix/src/modules/movies/services"
	showLib "nefllix/src/modules/shows/lib"
	showServices "nefllix/src/modules/shows/services"
	"nefllix/src/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirrorThumbnails(t *testing.T) {
	app := testutil.SetupApp(t)
	testutil.SetupDB(t)
	store := file.NewMemoryStore()
	file.SetStore(store)
	t.Cleanup(func() { file.SetStore(nil) })
	ctx := context.Background()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken.jpg" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("img"))
	}))
	t.Cleanup(origin.Close)

	require.NoError(t, MirrorThumbnails(ctx), "no origin configured is a no-op")
	app.MediaOriginURL = origin.URL

	movie, err := movieServices.CreateMovie(ctx, movieLib.MovieInput{Title: "M", ThumbnailURL: origin.URL + "/posters/m.jpg"})
	require.NoError(t, err)
	broken, err := movieServices.CreateMovie(ctx, movieLib.MovieInput{Title: "B", ThumbnailURL: origin.URL + "/broken.jpg"})
	require.NoError(t, err)
	show, err := showServices.CreateShow(ctx, showLib.ShowInput{Title: "S", ThumbnailURL: origin.URL + "/posters/s.jpg"})
	require.NoError(t, err)

	require.NoError(t, MirrorThumbnails(ctx))

	gotMovie, err := movieServices.GetMovie(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/static/posters/m.jpg", gotMovie.Movie.ThumbnailURL)

	gotShow, err := showServices.GetShow(ctx, show.ID)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/static/posters/s.jpg", gotShow.Show.ThumbnailURL)

	gotBroken, err := movieServices.GetMovie(ctx, broken.ID)
	require.NoError(t, err)
	assert.Equal(t, origin.URL+"/broken.jpg", gotBroken.Movie.ThumbnailURL, "failed downloads keep the remote url")

	ok, err := store.Exists(ctx, "posters/m.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCleanupExpired(t *testing.T) {
	testutil.SetupApp(t)
	testutil.SetupDB(t)

	require.NoError(t, config.DB.Create(&auth.Session{
		ID: "s1", SessionToken: "expired", UserID: "u1", Expires: time.Now().Add(-time.Hour),
	}).Error)

	require.NoError(t, CleanupExpired(context.Background()))

	var count int64
	config.DB.Model(&auth.Session{}).Count(&count)
	assert.Zero(t, count)
}

func TestWarmGenreCache(t *testing.T) {
	testutil.SetupApp(t)
	testutil.SetupDB(t)
	mr := testutil.SetupRedis(t)
	ctx := context.Background()

	_, err := movieServices.CreateMovie(ctx, movieLib.MovieInput{Title: "G", Genre: []string{"Noir"}})
	require.NoError(t, err)

	require.NoError(t, WarmGenreCache(ctx))
	assert.True(t, mr.Exists(movieServices.GenresCacheKey))
}

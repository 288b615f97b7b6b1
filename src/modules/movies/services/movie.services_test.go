package movies

import (
	"context"
	"net/http"
	"testing"

	"nefllix/src/config"
	library "nefllix/src/modules/library/models"
	lib "nefllix/src/modules/movies/lib"
	movies "nefllix/src/modules/movies/models"
	shows "nefllix/src/modules/shows/models"
	"nefllix/src/testutil"
	"nefllix/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMovies(t *testing.T) context.Context {
	t.Helper()
	testutil.SetupApp(t)
	testutil.SetupDB(t)
	testutil.SetupRedis(t)
	return context.Background()
}

func seedMovies(t *testing.T, ctx context.Context) map[string]*movies.Movie {
	t.Helper()
	inputs := []lib.MovieInput{
		{Title: "Arrival", Description: "Linguist meets visitors", Genre: []string{"Sci-Fi", "Drama"}, Rating: 8.1, Duration: 116, ReleaseYear: 2016},
		{Title: "Heat", Description: "Crew and detective", Genre: []string{"Crime", "drama"}, Rating: 8.3, Duration: 170, ReleaseYear: 1995},
		{Title: "Paddington", Description: "A bear in London", Genre: []string{"Family"}, Rating: 7.3, Duration: 95, ReleaseYear: 2014},
		{Title: "Late Show", Description: "Not for kids", Genre: []string{"Drama"}, Rating: 6.0, Duration: 100, ReleaseYear: 2016, IsAdult: true},
	}
	out := map[string]*movies.Movie{}
	for _, in := range inputs {
		m, err := CreateMovie(ctx, in)
		require.NoError(t, err)
		out[m.Title] = m
	}
	return out
}

func titles(items []movies.Movie) []string {
	out := make([]string, 0, len(items))
	for _, m := range items {
		out = append(out, m.Title)
	}
	return out
}

func TestCreateMovieValidation(t *testing.T) {
	ctx := setupMovies(t)

	_, err := CreateMovie(ctx, lib.MovieInput{Title: "  "})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	_, err = CreateMovie(ctx, lib.MovieInput{Title: "Bad", Rating: 11})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	m, err := CreateMovie(ctx, lib.MovieInput{Title: " Trimmed ", Genre: []string{"Drama", " drama ", ""}})
	require.NoError(t, err)
	assert.Equal(t, "Trimmed", m.Title)
	assert.Equal(t, utils.StringList{"Drama"}, m.Genre)
}

func TestGetMovieCachesAndInvalidates(t *testing.T) {
	ctx := setupMovies(t)
	seeded := seedMovies(t, ctx)
	heat := seeded["Heat"]

	first, err := GetMovie(ctx, heat.ID)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := GetMovie(ctx, heat.ID)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, "Heat", second.Movie.Title)

	_, err = UpdateMovie(ctx, heat.ID, lib.MovieInput{Title: "Heat (Director's Cut)", Rating: 8.5})
	require.NoError(t, err)

	third, err := GetMovie(ctx, heat.ID)
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	assert.Equal(t, "Heat (Director's Cut)", third.Movie.Title)

	_, err = GetMovie(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestListMovies(t *testing.T) {
	ctx := setupMovies(t)
	seedMovies(t, ctx)

	res, err := ListMovies(ctx, lib.ListRequest{SortField: "rating", SortType: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat", "Arrival", "Paddington"}, titles(res.Items))
	assert.EqualValues(t, 3, res.Pagination.TotalCount)

	res, err = ListMovies(ctx, lib.ListRequest{SortField: "rating", SortType: "desc"})
	require.NoError(t, err)
	assert.True(t, res.FromCache)

	res, err = ListMovies(ctx, lib.ListRequest{SortField: "title", SortType: "asc", IncludeAdult: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arrival", "Heat", "Late Show", "Paddington"}, titles(res.Items))

	res, err = ListMovies(ctx, lib.ListRequest{Genre: "drama", SortField: "title", SortType: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arrival", "Heat"}, titles(res.Items))

	res, err = ListMovies(ctx, lib.ListRequest{Year: 2016, IncludeAdult: true, SortField: "title", SortType: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arrival", "Late Show"}, titles(res.Items))

	res, err = ListMovies(ctx, lib.ListRequest{MinRating: 8, Limit: 1, Page: 2, SortField: "rating", SortType: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat"}, titles(res.Items))
	assert.Equal(t, 2, res.Pagination.TotalPages)
}

func TestListMoviesCacheKeysDoNotCollide(t *testing.T) {
	ctx := setupMovies(t)
	seedMovies(t, ctx)

	first, err := ListMovies(ctx, lib.ListRequest{Genre: "Drama", Keyword: "Heat:"})
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := ListMovies(ctx, lib.ListRequest{Genre: "Drama:Heat"})
	require.NoError(t, err)
	assert.False(t, second.FromCache)
	assert.Empty(t, second.Items)
}

func TestListMoviesGenreMatchesWholeElements(t *testing.T) {
	ctx := setupMovies(t)
	seedMovies(t, ctx)

	res, err := ListMovies(ctx, lib.ListRequest{Genre: "Sci"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	res, err = ListMovies(ctx, lib.ListRequest{Genre: "sci-fi", SortField: "title", SortType: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arrival"}, titles(res.Items))
}

func TestListMoviesSeesNewWrites(t *testing.T) {
	ctx := setupMovies(t)
	seedMovies(t, ctx)

	before, err := ListMovies(ctx, lib.ListRequest{})
	require.NoError(t, err)

	_, err = CreateMovie(ctx, lib.MovieInput{Title: "Fresh"})
	require.NoError(t, err)

	after, err := ListMovies(ctx, lib.ListRequest{})
	require.NoError(t, err)
	assert.False(t, after.FromCache)
	assert.Len(t, after.Items, len(before.Items)+1)
}

func TestSearchMovies(t *testing.T) {
	ctx := setupMovies(t)
	seedMovies(t, ctx)

	_, err := SearchMovies(ctx, lib.MovieSearchRequest{})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	res, err := SearchMovies(ctx, lib.MovieSearchRequest{Keyword: "LONDON"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Paddington"}, titles(res.Items))

	res, err = SearchMovies(ctx, lib.MovieSearchRequest{Keyword: "e"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat", "Arrival", "Paddington"}, titles(res.Items))
}

func TestGenresAndStats(t *testing.T) {
	ctx := setupMovies(t)
	seedMovies(t, ctx)
	require.NoError(t, config.DB.Create(&shows.TvShow{ID: utils.GenerateID(), Title: "Show", Genre: utils.StringList{"Crime"}}).Error)

	genres, err := ListGenres(ctx)
	require.NoError(t, err)
	assert.Equal(t, []movies.GenreCount{
		{Name: "Drama", Count: 3},
		{Name: "Crime", Count: 2},
		{Name: "Family", Count: 1},
		{Name: "Sci-Fi", Count: 1},
	}, genres)

	stats, err := MovieStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.Count)
	assert.InDelta(t, 8.3, stats.MaxRating, 0.001)
	assert.InDelta(t, 120.25, stats.AverageDuration, 0.001)
}

func TestStatsOnEmptyCatalog(t *testing.T) {
	ctx := setupMovies(t)

	stats, err := MovieStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Zero(t, stats.AverageRating)

	_, err = RandomMovie(ctx, false)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestRandomMovieSkipsAdult(t *testing.T) {
	ctx := setupMovies(t)
	_, err := CreateMovie(ctx, lib.MovieInput{Title: "Adults only", IsAdult: true})
	require.NoError(t, err)

	_, err = RandomMovie(ctx, false)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))

	m, err := RandomMovie(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "Adults only", m.Title)
}

func TestDeleteMovieCascadesToLibrary(t *testing.T) {
	ctx := setupMovies(t)
	m, err := CreateMovie(ctx, lib.MovieInput{Title: "Doomed"})
	require.NoError(t, err)
	require.NoError(t, config.DB.Create(&library.Favourite{
		ID: utils.GenerateID(), ProfileID: "p1", ContentID: m.ID, ContentType: library.ContentMovie,
	}).Error)

	require.NoError(t, DeleteMovie(ctx, m.ID))

	var favs int64
	config.DB.Model(&library.Favourite{}).Where("content_id = ?", m.ID).Count(&favs)
	assert.Zero(t, favs)

	ok, err := Exists(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	err = DeleteMovie(ctx, m.ID)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestThumbnails(t *testing.T) {
	ctx := setupMovies(t)
	remote, err := CreateMovie(ctx, lib.MovieInput{Title: "Remote", ThumbnailURL: "https://cdn.example.com/a.jpg"})
	require.NoError(t, err)
	_, err = CreateMovie(ctx, lib.MovieInput{Title: "Local", ThumbnailURL: "/api/v1/static/a.jpg"})
	require.NoError(t, err)

	rows, err := RemoteThumbnails(ctx, "https://cdn.example.com/")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, remote.ID, rows[0].ID)

	require.NoError(t, SetThumbnail(ctx, remote.ID, "/api/v1/static/remote/a.jpg"))
	rows, err = RemoteThumbnails(ctx, "https://cdn.example.com/")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGroupGenres(t *testing.T) {
	got := groupGenres([]utils.StringList{{"Action", "comedy"}, {"action"}, {"Comedy", "Zed"}})
	assert.Equal(t, []movies.GenreCount{
		{Name: "Action", Count: 2},
		{Name: "comedy", Count: 2},
		{Name: "Zed", Count: 1},
	}, got)
}

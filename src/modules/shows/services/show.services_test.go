package shows

import (
	"context"
	"net/http"
	"testing"

	"nefllix/src/config"
	library "nefllix/src/modules/library/models"
	movieLib "nefllix/src/modules/movies/lib"
	lib "nefllix/src/modules/shows/lib"
	shows "nefllix/src/modules/shows/models"
	"nefllix/src/testutil"
	"nefllix/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupShows(t *testing.T) context.Context {
	t.Helper()
	testutil.SetupApp(t)
	testutil.SetupDB(t)
	testutil.SetupRedis(t)
	return context.Background()
}

// seedSeries creates a show with seasons 1, 2 and 3. Season 2 has no episodes.
func seedSeries(t *testing.T, ctx context.Context) (*shows.TvShow, map[int]*shows.Season) {
	t.Helper()
	show, err := CreateShow(ctx, lib.ShowInput{Title: "Dark", Genre: []string{"Mystery"}, Rating: 8.7})
	require.NoError(t, err)

	seasons := map[int]*shows.Season{}
	for _, n := range []int{3, 1, 2} {
		s, err := AddSeason(ctx, show.ID, lib.SeasonInput{SeasonNumber: n})
		require.NoError(t, err)
		seasons[n] = s
	}
	for _, n := range []int{2, 1} {
		_, err := AddEpisode(ctx, seasons[1].ID, lib.EpisodeInput{EpisodeNumber: n, Title: "S1E" + string(rune('0'+n))})
		require.NoError(t, err)
	}
	_, err = AddEpisode(ctx, seasons[3].ID, lib.EpisodeInput{EpisodeNumber: 1, Title: "S3E1"})
	require.NoError(t, err)
	return show, seasons
}

func TestAddSeasonTracksCount(t *testing.T) {
	ctx := setupShows(t)
	show, seasons := seedSeries(t, ctx)

	res, err := GetShow(ctx, show.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Show.NumberOfSeasons)

	_, err = AddSeason(ctx, show.ID, lib.SeasonInput{SeasonNumber: 2})
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	_, err = AddSeason(ctx, "missing", lib.SeasonInput{SeasonNumber: 1})
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))

	_, err = AddSeason(ctx, show.ID, lib.SeasonInput{SeasonNumber: 0})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	require.NoError(t, DeleteSeason(ctx, seasons[3].ID))
	res, err = GetShow(ctx, show.ID)
	require.NoError(t, err)
	assert.False(t, res.FromCache, "season writes drop the cached show")
	assert.Equal(t, 2, res.Show.NumberOfSeasons)

	var episodes int64
	config.DB.Model(&shows.Episode{}).Where("season_id = ?", seasons[3].ID).Count(&episodes)
	assert.Zero(t, episodes)
}

func TestGetShowDetailsOrdersSeasonsAndEpisodes(t *testing.T) {
	ctx := setupShows(t)
	show, _ := seedSeries(t, ctx)

	res, err := GetShowDetails(ctx, show.ID)
	require.NoError(t, err)
	require.Len(t, res.Show.Seasons, 3)
	for i, season := range res.Show.Seasons {
		assert.Equal(t, i+1, season.SeasonNumber)
	}
	first := res.Show.Seasons[0].Episodes
	require.Len(t, first, 2)
	assert.Equal(t, 1, first[0].EpisodeNumber)
	assert.Equal(t, 2, first[1].EpisodeNumber)
	assert.Empty(t, res.Show.Seasons[1].Episodes)

	cached, err := GetShowDetails(ctx, show.ID)
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
	assert.Len(t, cached.Show.Seasons, 3)
}

func TestEpisodeConflictsAndValidation(t *testing.T) {
	ctx := setupShows(t)
	_, seasons := seedSeries(t, ctx)

	_, err := AddEpisode(ctx, seasons[1].ID, lib.EpisodeInput{EpisodeNumber: 1, Title: "Again"})
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	_, err = AddEpisode(ctx, seasons[1].ID, lib.EpisodeInput{EpisodeNumber: 3, Title: " "})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	_, err = AddEpisode(ctx, "missing", lib.EpisodeInput{EpisodeNumber: 1, Title: "Lost"})
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestGetAndNextEpisode(t *testing.T) {
	ctx := setupShows(t)
	show, _ := seedSeries(t, ctx)

	ep, err := GetEpisode(ctx, show.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "S1E2", ep.Episode.Title)

	_, err = GetEpisode(ctx, show.ID, 1, 9)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))

	next, err := NextEpisode(ctx, show.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, next.SeasonNumber)
	assert.Equal(t, 2, next.Episode.EpisodeNumber)

	next, err = NextEpisode(ctx, show.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, next.SeasonNumber, "empty seasons are skipped")
	assert.Equal(t, "S3E1", next.Episode.Title)

	_, err = NextEpisode(ctx, show.ID, 3, 1)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestUpdateEpisode(t *testing.T) {
	ctx := setupShows(t)
	_, seasons := seedSeries(t, ctx)
	ep, err := AddEpisode(ctx, seasons[2].ID, lib.EpisodeInput{EpisodeNumber: 1, Title: "Pilot"})
	require.NoError(t, err)

	updated, err := UpdateEpisode(ctx, ep.ID, lib.EpisodeInput{EpisodeNumber: 4, Title: "Moved", Duration: 50})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.EpisodeNumber)
	assert.Equal(t, 50, updated.Duration)

	require.NoError(t, DeleteEpisode(ctx, ep.ID))
	err = DeleteEpisode(ctx, ep.ID)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestDeleteShowCascades(t *testing.T) {
	ctx := setupShows(t)
	show, seasons := seedSeries(t, ctx)
	require.NoError(t, config.DB.Create(&library.Watching{
		ID: utils.GenerateID(), ProfileID: "p1", ContentID: show.ID, ContentType: library.ContentTV,
	}).Error)

	require.NoError(t, DeleteShow(ctx, show.ID))

	var seasonCount, episodeCount, watching int64
	config.DB.Model(&shows.Season{}).Where("tv_show_id = ?", show.ID).Count(&seasonCount)
	config.DB.Model(&shows.Episode{}).Where("season_id = ?", seasons[1].ID).Count(&episodeCount)
	config.DB.Model(&library.Watching{}).Where("content_id = ?", show.ID).Count(&watching)
	assert.Zero(t, seasonCount)
	assert.Zero(t, episodeCount)
	assert.Zero(t, watching)

	_, err := GetShow(ctx, show.ID)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestListShows(t *testing.T) {
	ctx := setupShows(t)
	seedSeries(t, ctx)
	_, err := CreateShow(ctx, lib.ShowInput{Title: "Bluey", Genre: []string{"Family"}, Rating: 9.3})
	require.NoError(t, err)
	_, err = CreateShow(ctx, lib.ShowInput{Title: "Hidden", IsAdult: true})
	require.NoError(t, err)

	res, err := ListShows(ctx, movieLib.ListRequest{SortField: "numberOfSeasons", SortType: "desc"})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Dark", res.Items[0].Title)

	res, err = ListShows(ctx, movieLib.ListRequest{Genre: "family"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Bluey", res.Items[0].Title)

	again, err := ListShows(ctx, movieLib.ListRequest{Genre: "family"})
	require.NoError(t, err)
	assert.True(t, again.FromCache)

	_, err = ListShows(ctx, movieLib.ListRequest{Genre: "Family", Keyword: "Blu:"})
	require.NoError(t, err)
	other, err := ListShows(ctx, movieLib.ListRequest{Genre: "Family:Blu"})
	require.NoError(t, err)
	assert.False(t, other.FromCache)
	assert.Empty(t, other.Items)
}

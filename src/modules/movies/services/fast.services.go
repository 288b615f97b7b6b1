package movies

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"nefllix/src/cache"
	"nefllix/src/config"
	movies "nefllix/src/modules/movies/models"
	shows "nefllix/src/modules/shows/models"
	"nefllix/src/utils"
)

// GenresCacheKey holds the genre group-by shared by movies and shows.
const GenresCacheKey = "catalog_genres"

const genresTTL = 23 * time.Hour

// ListGenres groups the movie and show catalogs by genre.
func ListGenres(ctx context.Context) ([]movies.GenreCount, error) {
	var cached []movies.GenreCount
	if cache.GetJSON(ctx, GenresCacheKey, &cached) {
		return cached, nil
	}

	genres, err := CountGenres(ctx)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, GenresCacheKey, "", genres, genresTTL)
	return genres, nil
}

// CountGenres computes the genre group-by without the cache. Genres are
// merged case-insensitively under the first spelling seen.
func CountGenres(ctx context.Context) ([]movies.GenreCount, error) {
	db := config.DB.WithContext(ctx)

	var movieRows []movies.Movie
	if err := db.Select("genre").Find(&movieRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load movie genres: %w", err)
	}
	var showRows []shows.TvShow
	if err := db.Select("genre").Find(&showRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load show genres: %w", err)
	}

	lists := make([]utils.StringList, 0, len(movieRows)+len(showRows))
	for _, m := range movieRows {
		lists = append(lists, m.Genre)
	}
	for _, s := range showRows {
		lists = append(lists, s.Genre)
	}
	return groupGenres(lists), nil
}

func groupGenres(lists []utils.StringList) []movies.GenreCount {
	counts := map[string]int{}
	names := map[string]string{}
	for _, list := range lists {
		for _, g := range list {
			key := strings.ToLower(g)
			if _, ok := names[key]; !ok {
				names[key] = g
			}
			counts[key]++
		}
	}

	out := make([]movies.GenreCount, 0, len(counts))
	for key, count := range counts {
		out = append(out, movies.GenreCount{Name: names[key], Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MovieStats aggregates the catalog.
func MovieStats(ctx context.Context) (*movies.MovieStats, error) {
	var stats movies.MovieStats
	if cache.GetJSON(ctx, statsCacheKey, &stats) {
		return &stats, nil
	}

	err := config.DB.WithContext(ctx).Model(&movies.Movie{}).
		Select("COUNT(*) AS count, " +
			"COALESCE(AVG(rating), 0) AS average_rating, " +
			"COALESCE(MAX(rating), 0) AS max_rating, " +
			"COALESCE(AVG(duration), 0) AS average_duration").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate movies: %w", err)
	}

	cache.SetJSON(ctx, statsCacheKey, "", stats, time.Hour)
	return &stats, nil
}

// RandomMovie picks a movie for the billboard.
func RandomMovie(ctx context.Context, includeAdult bool) (*movies.Movie, error) {
	q := config.DB.WithContext(ctx).Model(&movies.Movie{})
	if !includeAdult {
		q = q.Where("is_adult = ?", false)
	}

	var movie movies.Movie
	if err := q.Order("RANDOM()").Take(&movie).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewNotFoundError("no movies available")
		}
		return nil, fmt.Errorf("failed to pick random movie: %w", err)
	}
	return &movie, nil
}

// WarmGenres recomputes the genre group-by into the cache.
func WarmGenres(ctx context.Context) (int, error) {
	genres, err := CountGenres(ctx)
	if err != nil {
		return 0, err
	}
	cache.SetJSON(ctx, GenresCacheKey, "", genres, genresTTL)
	return len(genres), nil
}

// RemoteThumbnails lists movies whose thumbnail still points under prefix.
func RemoteThumbnails(ctx context.Context, prefix string) ([]movies.Movie, error) {
	var rows []movies.Movie
	err := config.DB.WithContext(ctx).
		Select("id", "thumbnail_url").
		Where("thumbnail_url LIKE ?", prefix+"%").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load remote thumbnails: %w", err)
	}
	return rows, nil
}

func SetThumbnail(ctx context.Context, id, thumbnailURL string) error {
	err := config.DB.WithContext(ctx).Model(&movies.Movie{}).
		Where("id = ?", id).
		Update("thumbnail_url", thumbnailURL).Error
	if err != nil {
		return fmt.Errorf("failed to update thumbnail: %w", err)
	}
	invalidate(ctx, id)
	return nil
}

package movies

import (
	"context"
	"fmt"
	"strings"

	"nefllix/src/cache"
	"nefllix/src/config"
	"nefllix/src/logger"
	libraryModels "nefllix/src/modules/library/models"
	lib "nefllix/src/modules/movies/lib"
	movies "nefllix/src/modules/movies/models"
	"nefllix/src/utils"

	"gorm.io/gorm"
)

const (
	detailsTagKey = "movie_details:cached_keys"
	listTagKey    = "movie_list:cached_keys"
	searchTagKey  = "movie_search:cached_keys"
	statsCacheKey = "movie_stats"
)

func detailsCacheKey(id string) string {
	return "movie_details:" + id
}

func validateInput(in lib.MovieInput) *utils.ServiceError {
	if strings.TrimSpace(in.Title) == "" {
		return utils.NewBadRequestError("title is required")
	}
	if in.Rating < 0 || in.Rating > 10 {
		return utils.NewBadRequestError("rating must be between 0 and 10")
	}
	if in.Duration < 0 {
		return utils.NewBadRequestError("duration cannot be negative")
	}
	return nil
}

func applyInput(m *movies.Movie, in lib.MovieInput) {
	m.Title = strings.TrimSpace(in.Title)
	m.Description = strings.TrimSpace(in.Description)
	m.VideoURL = strings.TrimSpace(in.VideoURL)
	m.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	m.TrailerURL = strings.TrimSpace(in.TrailerURL)
	m.Genre = utils.CleanStringList(in.Genre)
	m.Rating = in.Rating
	m.Duration = in.Duration
	m.IsAdult = in.IsAdult
	m.ReleaseYear = in.ReleaseYear
}

// invalidate drops every cached read that a write to movie id can affect.
func invalidate(ctx context.Context, id string) {
	cache.InvalidateTags(ctx, listTagKey, searchTagKey)
	cache.Delete(ctx, detailsCacheKey(id), statsCacheKey, GenresCacheKey)
}

func CreateMovie(ctx context.Context, in lib.MovieInput) (*movies.Movie, error) {
	if verr := validateInput(in); verr != nil {
		return nil, verr
	}

	movie := movies.Movie{ID: utils.GenerateID()}
	applyInput(&movie, in)
	if err := config.DB.WithContext(ctx).Create(&movie).Error; err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	invalidate(ctx, movie.ID)
	logger.Info("[Movies] created movie", "movie_id", movie.ID, "title", movie.Title)
	return &movie, nil
}

func UpdateMovie(ctx context.Context, id string, in lib.MovieInput) (*movies.Movie, error) {
	if verr := validateInput(in); verr != nil {
		return nil, verr
	}

	movie, err := findMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	applyInput(movie, in)
	if err := config.DB.WithContext(ctx).Save(movie).Error; err != nil {
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	invalidate(ctx, id)
	return movie, nil
}

// DeleteMovie removes the movie and every favourite, watched and watching
// record pointing at it.
func DeleteMovie(ctx context.Context, id string) error {
	movie, err := findMovie(ctx, id)
	if err != nil {
		return err
	}

	err = config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := libraryModels.DeleteForContent(tx, []string{movie.ID}); err != nil {
			return err
		}
		return tx.Delete(movie).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	invalidate(ctx, id)
	logger.Info("[Movies] deleted movie", "movie_id", id)
	return nil
}

func findMovie(ctx context.Context, id string) (*movies.Movie, error) {
	var movie movies.Movie
	if err := config.DB.WithContext(ctx).Where("id = ?", id).First(&movie).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewNotFoundError("movie not found")
		}
		return nil, fmt.Errorf("failed to load movie: %w", err)
	}
	return &movie, nil
}

// GetMovie reads through the details cache.
func GetMovie(ctx context.Context, id string) (*lib.MovieDetailsResponse, error) {
	cacheKey := detailsCacheKey(id)

	var cached lib.MovieDetailsResponse
	if cache.GetJSON(ctx, cacheKey, &cached) {
		cached.FromCache = true
		return &cached, nil
	}

	movie, err := findMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	res := lib.MovieDetailsResponse{Movie: *movie}
	cache.SetJSON(ctx, cacheKey, detailsTagKey, res, cache.DefaultTTL)
	return &res, nil
}

// Exists reports whether a movie with id is in the catalog.
func Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := config.DB.WithContext(ctx).Model(&movies.Movie{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check movie: %w", err)
	}
	return count > 0, nil
}

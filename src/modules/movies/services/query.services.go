package movies

import (
	"context"
	"fmt"

	"nefllix/src/cache"
	"nefllix/src/config"
	lib "nefllix/src/modules/movies/lib"
	movies "nefllix/src/modules/movies/models"
	"nefllix/src/utils"

	"gorm.io/gorm"
)

// filteredMovies builds a fresh query for req so it can be counted and
// fetched independently.
func filteredMovies(ctx context.Context, req lib.ListRequest) *gorm.DB {
	q := config.DB.WithContext(ctx).Model(&movies.Movie{})
	if !req.IncludeAdult {
		q = q.Where("is_adult = ?", false)
	}
	if req.Genre != "" {
		q = utils.WhereArrayContains(q, "genre", req.Genre)
	}
	if req.Keyword != "" {
		q = utils.WhereKeyword(q, req.Keyword, "title", "description")
	}
	if req.MinRating > 0 {
		q = q.Where("rating >= ?", req.MinRating)
	}
	if req.Year != 0 {
		q = q.Where("release_year = ?", req.Year)
	}
	return q
}

func ListMovies(ctx context.Context, req lib.ListRequest) (*lib.MovieListResponse, error) {
	req.Normalize(lib.MovieSortFields)
	cacheKey := buildListCacheKey(req)

	var cached lib.MovieListResponse
	if cache.GetJSON(ctx, cacheKey, &cached) {
		cached.FromCache = true
		return &cached, nil
	}

	var total int64
	if err := filteredMovies(ctx, req).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count movies: %w", err)
	}

	page := utils.CalculateOffset(req.Page, req.Limit, req.SortType, lib.MovieSortFields[req.SortField])
	items := make([]movies.Movie, 0, req.Limit)
	err := filteredMovies(ctx, req).
		Order(page.OrderBy + " " + page.SortBy).
		Order("id ASC").
		Offset(page.Offset).
		Limit(page.ItemsPerPage).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	res := lib.MovieListResponse{
		Items:      items,
		Pagination: utils.Paginate(total, req.Page, req.Limit),
	}
	cache.SetJSON(ctx, cacheKey, listTagKey, res, cache.DefaultTTL)
	return &res, nil
}

// SearchMovies matches keyword against title and description, best rated first.
func SearchMovies(ctx context.Context, req lib.MovieSearchRequest) (*lib.MovieListResponse, error) {
	if req.Keyword == "" {
		return nil, utils.NewBadRequestError("keyword is required")
	}
	listReq := lib.ListRequest{
		Page:         req.Page,
		Limit:        req.Limit,
		SortField:    "rating",
		SortType:     "desc",
		Keyword:      req.Keyword,
		IncludeAdult: req.IncludeAdult,
	}
	listReq.Normalize(lib.MovieSortFields)
	cacheKey := buildSearchCacheKey(listReq)

	var cached lib.MovieListResponse
	if cache.GetJSON(ctx, cacheKey, &cached) {
		cached.FromCache = true
		return &cached, nil
	}

	var total int64
	if err := filteredMovies(ctx, listReq).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	items := make([]movies.Movie, 0, listReq.Limit)
	err := filteredMovies(ctx, listReq).
		Order("rating DESC").
		Order("title ASC").
		Offset((listReq.Page - 1) * listReq.Limit).
		Limit(listReq.Limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}

	res := lib.MovieListResponse{
		Items:      items,
		Pagination: utils.Paginate(total, listReq.Page, listReq.Limit),
	}
	cache.SetJSON(ctx, cacheKey, searchTagKey, res, cache.DefaultTTL)
	return &res, nil
}

// buildListCacheKey creates a unique Redis cache key for a normalized list query
func buildListCacheKey(req lib.ListRequest) string {
	return cache.RequestKey("movie_list", req)
}

func buildSearchCacheKey(req lib.ListRequest) string {
	return cache.RequestKey("movie_search", req)
}

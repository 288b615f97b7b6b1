package shows

import (
	"context"
	"fmt"
	"strings"

	"nefllix/src/cache"
	"nefllix/src/config"
	"nefllix/src/logger"
	libraryModels "nefllix/src/modules/library/models"
	movieLib "nefllix/src/modules/movies/lib"
	movieServices "nefllix/src/modules/movies/services"
	lib "nefllix/src/modules/shows/lib"
	shows "nefllix/src/modules/shows/models"
	"nefllix/src/utils"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	detailsTagKey = "show_details:cached_keys"
	listTagKey    = "show_list:cached_keys"
)

func showCacheKey(id string) string {
	return "show_details:" + id
}

func showFullCacheKey(id string) string {
	return "show_full:" + id
}

func invalidateShow(ctx context.Context, id string) {
	cache.InvalidateTags(ctx, listTagKey)
	cache.Delete(ctx, showCacheKey(id), showFullCacheKey(id), movieServices.GenresCacheKey)
}

func applyShowInput(s *shows.TvShow, in lib.ShowInput) {
	s.Title = strings.TrimSpace(in.Title)
	s.Description = strings.TrimSpace(in.Description)
	s.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	s.TrailerURL = strings.TrimSpace(in.TrailerURL)
	s.Genre = utils.CleanStringList(in.Genre)
	s.Rating = in.Rating
	s.IsAdult = in.IsAdult
	s.ReleaseYear = in.ReleaseYear
}

func validateShowInput(in lib.ShowInput) *utils.ServiceError {
	if strings.TrimSpace(in.Title) == "" {
		return utils.NewBadRequestError("title is required")
	}
	if in.Rating < 0 || in.Rating > 10 {
		return utils.NewBadRequestError("rating must be between 0 and 10")
	}
	return nil
}

func CreateShow(ctx context.Context, in lib.ShowInput) (*shows.TvShow, error) {
	if verr := validateShowInput(in); verr != nil {
		return nil, verr
	}

	show := shows.TvShow{ID: utils.GenerateID()}
	applyShowInput(&show, in)
	if err := config.DB.WithContext(ctx).Omit(clause.Associations).Create(&show).Error; err != nil {
		return nil, fmt.Errorf("failed to create show: %w", err)
	}

	invalidateShow(ctx, show.ID)
	logger.Info("[Shows] created show", "show_id", show.ID, "title", show.Title)
	return &show, nil
}

func UpdateShow(ctx context.Context, id string, in lib.ShowInput) (*shows.TvShow, error) {
	if verr := validateShowInput(in); verr != nil {
		return nil, verr
	}

	show, err := findShow(ctx, config.DB, id)
	if err != nil {
		return nil, err
	}
	applyShowInput(show, in)
	if err := config.DB.WithContext(ctx).Omit(clause.Associations).Save(show).Error; err != nil {
		return nil, fmt.Errorf("failed to update show: %w", err)
	}

	invalidateShow(ctx, id)
	return show, nil
}

// DeleteShow removes the show with its seasons, episodes and library references.
func DeleteShow(ctx context.Context, id string) error {
	show, err := findShow(ctx, config.DB, id)
	if err != nil {
		return err
	}

	err = config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seasonIDs []string
		if err := tx.Model(&shows.Season{}).Where("tv_show_id = ?", id).Pluck("id", &seasonIDs).Error; err != nil {
			return err
		}
		if len(seasonIDs) > 0 {
			if err := tx.Where("season_id IN ?", seasonIDs).Delete(&shows.Episode{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", seasonIDs).Delete(&shows.Season{}).Error; err != nil {
				return err
			}
		}
		if err := libraryModels.DeleteForContent(tx, []string{id}); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Delete(show).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete show: %w", err)
	}

	invalidateShow(ctx, id)
	logger.Info("[Shows] deleted show", "show_id", id)
	return nil
}

func findShow(ctx context.Context, db *gorm.DB, id string) (*shows.TvShow, error) {
	var show shows.TvShow
	if err := db.WithContext(ctx).Where("id = ?", id).First(&show).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewNotFoundError("show not found")
		}
		return nil, fmt.Errorf("failed to load show: %w", err)
	}
	return &show, nil
}

// GetShow returns the show row without seasons, through the cache.
func GetShow(ctx context.Context, id string) (*lib.ShowResponse, error) {
	cacheKey := showCacheKey(id)

	var cached lib.ShowResponse
	if cache.GetJSON(ctx, cacheKey, &cached) {
		cached.FromCache = true
		return &cached, nil
	}

	show, err := findShow(ctx, config.DB, id)
	if err != nil {
		return nil, err
	}
	res := lib.ShowResponse{Show: *show}
	cache.SetJSON(ctx, cacheKey, detailsTagKey, res, cache.DefaultTTL)
	return &res, nil
}

// GetShowDetails returns the show with seasons and episodes ordered by number.
func GetShowDetails(ctx context.Context, id string) (*lib.ShowResponse, error) {
	cacheKey := showFullCacheKey(id)

	var cached lib.ShowResponse
	if cache.GetJSON(ctx, cacheKey, &cached) {
		cached.FromCache = true
		return &cached, nil
	}

	show, err := findShow(ctx, config.DB, id)
	if err != nil {
		return nil, err
	}

	seasons := make([]shows.Season, 0)
	err = config.DB.WithContext(ctx).
		Where("tv_show_id = ?", id).
		Order("season_number ASC").
		Find(&seasons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load seasons: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range seasons {
		g.Go(func() error {
			episodes := make([]shows.Episode, 0)
			err := config.DB.WithContext(gctx).
				Where("season_id = ?", seasons[i].ID).
				Order("episode_number ASC").
				Find(&episodes).Error
			if err != nil {
				return fmt.Errorf("failed to load episodes for season %d: %w", seasons[i].SeasonNumber, err)
			}
			seasons[i].Episodes = episodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	show.Seasons = seasons
	res := lib.ShowResponse{Show: *show}
	cache.SetJSON(ctx, cacheKey, detailsTagKey, res, cache.DefaultTTL)
	return &res, nil
}

func filteredShows(ctx context.Context, req movieLib.ListRequest) *gorm.DB {
	q := config.DB.WithContext(ctx).Model(&shows.TvShow{})
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

func ListShows(ctx context.Context, req movieLib.ListRequest) (*lib.ShowListResponse, error) {
	req.Normalize(lib.ShowSortFields)
	cacheKey := cache.RequestKey("show_list", req)

	var cached lib.ShowListResponse
	if cache.GetJSON(ctx, cacheKey, &cached) {
		cached.FromCache = true
		return &cached, nil
	}

	var total int64
	if err := filteredShows(ctx, req).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count shows: %w", err)
	}

	page := utils.CalculateOffset(req.Page, req.Limit, req.SortType, lib.ShowSortFields[req.SortField])
	items := make([]shows.TvShow, 0, req.Limit)
	err := filteredShows(ctx, req).
		Order(page.OrderBy + " " + page.SortBy).
		Order("id ASC").
		Offset(page.Offset).
		Limit(page.ItemsPerPage).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}

	res := lib.ShowListResponse{
		Items:      items,
		Pagination: utils.Paginate(total, req.Page, req.Limit),
	}
	cache.SetJSON(ctx, cacheKey, listTagKey, res, cache.DefaultTTL)
	return &res, nil
}

// Exists reports whether a show with id is in the catalog.
func Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := config.DB.WithContext(ctx).Model(&shows.TvShow{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check show: %w", err)
	}
	return count > 0, nil
}

// RemoteThumbnails lists shows whose thumbnail still points under prefix.
func RemoteThumbnails(ctx context.Context, prefix string) ([]shows.TvShow, error) {
	var rows []shows.TvShow
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
	err := config.DB.WithContext(ctx).Model(&shows.TvShow{}).
		Where("id = ?", id).
		Update("thumbnail_url", thumbnailURL).Error
	if err != nil {
		return fmt.Errorf("failed to update thumbnail: %w", err)
	}
	invalidateShow(ctx, id)
	return nil
}

package library

import (
	"context"
	"fmt"
	"time"

	"nefllix/src/config"
	lib "nefllix/src/modules/library/lib"
	library "nefllix/src/modules/library/models"
	movieServices "nefllix/src/modules/movies/services"
	showServices "nefllix/src/modules/shows/services"
	"nefllix/src/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var profileContentColumns = []clause.Column{{Name: "profile_id"}, {Name: "content_id"}}

// checkContent verifies that contentID exists in the catalog named by contentType.
func checkContent(ctx context.Context, contentID string, contentType library.ContentType) error {
	if contentID == "" {
		return utils.NewBadRequestError("contentId is required")
	}

	var (
		exists bool
		err    error
	)
	switch contentType {
	case library.ContentMovie:
		exists, err = movieServices.Exists(ctx, contentID)
	case library.ContentTV:
		exists, err = showServices.Exists(ctx, contentID)
	default:
		return utils.NewBadRequestError("contentType must be movie or tv")
	}
	if err != nil {
		return err
	}
	if !exists {
		return utils.NewNotFoundError(fmt.Sprintf("%s %s not found", contentType, contentID))
	}
	return nil
}

// listPage runs a paginated, newest-first query over one library table.
func listPage[T any](ctx context.Context, profileID string, req lib.LibraryListRequest, orderColumn string) (*lib.ListResponse[T], error) {
	req.Normalize()
	if req.ContentType != "" && !req.ContentType.Valid() {
		return nil, utils.NewBadRequestError("contentType must be movie or tv")
	}

	scope := func() *gorm.DB {
		var model T
		q := config.DB.WithContext(ctx).Model(&model).Where("profile_id = ?", profileID)
		if req.ContentType != "" {
			q = q.Where("content_type = ?", req.ContentType)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count library records: %w", err)
	}

	items := make([]T, 0, req.Limit)
	err := scope().
		Order(orderColumn + " DESC").
		Order("id ASC").
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list library records: %w", err)
	}

	return &lib.ListResponse[T]{
		Items:      items,
		Pagination: utils.Paginate(total, req.Page, req.Limit),
	}, nil
}

func exists(ctx context.Context, model interface{}, profileID, contentID string) (bool, error) {
	var count int64
	err := config.DB.WithContext(ctx).Model(model).
		Where("profile_id = ? AND content_id = ?", profileID, contentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check library record: %w", err)
	}
	return count > 0, nil
}

func removeRecord(ctx context.Context, model interface{}, profileID, contentID, label string) error {
	res := config.DB.WithContext(ctx).
		Where("profile_id = ? AND content_id = ?", profileID, contentID).
		Delete(model)
	if res.Error != nil {
		return fmt.Errorf("failed to remove %s: %w", label, res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NewNotFoundError(label + " not found")
	}
	return nil
}

// AddFavourite is idempotent: adding an existing favourite returns the stored row.
func AddFavourite(ctx context.Context, profileID, contentID string, contentType library.ContentType) (*library.Favourite, error) {
	if err := checkContent(ctx, contentID, contentType); err != nil {
		return nil, err
	}

	db := config.DB.WithContext(ctx)
	fav := library.Favourite{
		ID:          utils.GenerateID(),
		ProfileID:   profileID,
		ContentID:   contentID,
		ContentType: contentType,
	}
	err := db.Clauses(clause.OnConflict{Columns: profileContentColumns, DoNothing: true}).Create(&fav).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add favourite: %w", err)
	}

	var stored library.Favourite
	if err := db.Where("profile_id = ? AND content_id = ?", profileID, contentID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load favourite: %w", err)
	}
	return &stored, nil
}

func RemoveFavourite(ctx context.Context, profileID, contentID string) error {
	return removeRecord(ctx, &library.Favourite{}, profileID, contentID, "favourite")
}

func ListFavourites(ctx context.Context, profileID string, req lib.LibraryListRequest) (*lib.ListResponse[library.Favourite], error) {
	return listPage[library.Favourite](ctx, profileID, req, "created_at")
}

func IsFavourite(ctx context.Context, profileID, contentID string) (bool, error) {
	return exists(ctx, &library.Favourite{}, profileID, contentID)
}

// FavouriteIDs lists every favourited content id for the profile.
func FavouriteIDs(ctx context.Context, profileID string) ([]string, error) {
	ids := make([]string, 0)
	err := config.DB.WithContext(ctx).Model(&library.Favourite{}).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Pluck("content_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favourites: %w", err)
	}
	return ids, nil
}

func upsertWatched(tx *gorm.DB, profileID, contentID string, contentType library.ContentType, at time.Time) error {
	rec := library.Watched{
		ID:          utils.GenerateID(),
		ProfileID:   profileID,
		ContentID:   contentID,
		ContentType: contentType,
		WatchedAt:   at,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   profileContentColumns,
		DoUpdates: clause.AssignmentColumns([]string{"watched_at", "content_type"}),
	}).Create(&rec).Error
}

// MarkWatched records the content as watched now, refreshing watchedAt on repeats.
func MarkWatched(ctx context.Context, profileID, contentID string, contentType library.ContentType) (*library.Watched, error) {
	if err := checkContent(ctx, contentID, contentType); err != nil {
		return nil, err
	}

	db := config.DB.WithContext(ctx)
	if err := upsertWatched(db, profileID, contentID, contentType, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark watched: %w", err)
	}

	var stored library.Watched
	if err := db.Where("profile_id = ? AND content_id = ?", profileID, contentID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load watched record: %w", err)
	}
	return &stored, nil
}

func UnmarkWatched(ctx context.Context, profileID, contentID string) error {
	return removeRecord(ctx, &library.Watched{}, profileID, contentID, "watched record")
}

func ListWatched(ctx context.Context, profileID string, req lib.LibraryListRequest) (*lib.ListResponse[library.Watched], error) {
	return listPage[library.Watched](ctx, profileID, req, "watched_at")
}

func IsWatched(ctx context.Context, profileID, contentID string) (bool, error) {
	return exists(ctx, &library.Watched{}, profileID, contentID)
}

// ClampProgress keeps progress within 0 to 100 percent.
func ClampProgress(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// UpdateProgress upserts the watching record. Reaching CompletedThreshold or
// an explicit completed flag also marks the content watched.
func UpdateProgress(ctx context.Context, profileID string, req lib.ProgressRequest) (*library.Watching, error) {
	if err := checkContent(ctx, req.ContentID, req.ContentType); err != nil {
		return nil, err
	}
	if req.ContentType == library.ContentMovie {
		req.SeasonNumber, req.EpisodeNumber = nil, nil
	}
	if (req.SeasonNumber != nil && *req.SeasonNumber < 1) || (req.EpisodeNumber != nil && *req.EpisodeNumber < 1) {
		return nil, utils.NewBadRequestError("season and episode numbers start at 1")
	}

	now := time.Now()
	progress := ClampProgress(req.Progress)
	completed := req.Completed || progress >= library.CompletedThreshold

	rec := library.Watching{
		ID:            utils.GenerateID(),
		ProfileID:     profileID,
		ContentID:     req.ContentID,
		ContentType:   req.ContentType,
		Progress:      progress,
		LastWatched:   now,
		Completed:     completed,
		SeasonNumber:  req.SeasonNumber,
		EpisodeNumber: req.EpisodeNumber,
	}

	var stored library.Watching
	err := config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: profileContentColumns,
			DoUpdates: clause.AssignmentColumns([]string{
				"content_type", "progress", "last_watched", "completed",
				"season_number", "episode_number", "updated_at",
			}),
		}).Create(&rec).Error
		if err != nil {
			return err
		}
		if completed {
			if err := upsertWatched(tx, profileID, req.ContentID, req.ContentType, now); err != nil {
				return err
			}
		}
		return tx.Where("profile_id = ? AND content_id = ?", profileID, req.ContentID).First(&stored).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	return &stored, nil
}

// ContinueWatching lists unfinished content, most recently watched first.
func ContinueWatching(ctx context.Context, profileID string, limit int) ([]library.Watching, error) {
	limit = utils.ClampLimit(limit, lib.DefaultListLimit, lib.MaxListLimit)

	items := make([]library.Watching, 0, limit)
	err := config.DB.WithContext(ctx).
		Where("profile_id = ? AND completed = ?", profileID, false).
		Order("last_watched DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load continue watching: %w", err)
	}
	return items, nil
}

func GetProgress(ctx context.Context, profileID, contentID string) (*library.Watching, error) {
	var rec library.Watching
	err := config.DB.WithContext(ctx).
		Where("profile_id = ? AND content_id = ?", profileID, contentID).
		First(&rec).Error
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewNotFoundError("no progress recorded")
		}
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return &rec, nil
}

func RemoveWatching(ctx context.Context, profileID, contentID string) error {
	return removeRecord(ctx, &library.Watching{}, profileID, contentID, "watching record")
}

func LibrarySummary(ctx context.Context, profileID string) (*lib.Summary, error) {
	db := config.DB.WithContext(ctx)
	var summary lib.Summary

	if err := db.Model(&library.Favourite{}).Where("profile_id = ?", profileID).Count(&summary.Favourites).Error; err != nil {
		return nil, fmt.Errorf("failed to count favourites: %w", err)
	}
	if err := db.Model(&library.Watched{}).Where("profile_id = ?", profileID).Count(&summary.Watched).Error; err != nil {
		return nil, fmt.Errorf("failed to count watched: %w", err)
	}
	err := db.Model(&library.Watching{}).
		Where("profile_id = ? AND completed = ?", profileID, false).
		Count(&summary.InProgress).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count in-progress: %w", err)
	}
	return &summary, nil
}

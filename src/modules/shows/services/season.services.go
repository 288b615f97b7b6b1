package shows

import (
	"context"
	"fmt"
	"strings"

	"nefllix/src/config"
	lib "nefllix/src/modules/shows/lib"
	shows "nefllix/src/modules/shows/models"
	"nefllix/src/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// syncSeasonCount stores the current number of seasons on the show.
func syncSeasonCount(tx *gorm.DB, showID string) error {
	var count int64
	if err := tx.Model(&shows.Season{}).Where("tv_show_id = ?", showID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&shows.TvShow{}).
		Where("id = ?", showID).
		Update("number_of_seasons", count).Error
}

func applySeasonInput(s *shows.Season, in lib.SeasonInput) {
	s.SeasonNumber = in.SeasonNumber
	s.Title = strings.TrimSpace(in.Title)
	s.Description = strings.TrimSpace(in.Description)
	s.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	s.ReleaseYear = in.ReleaseYear
}

func applyEpisodeInput(e *shows.Episode, in lib.EpisodeInput) {
	e.EpisodeNumber = in.EpisodeNumber
	e.Title = strings.TrimSpace(in.Title)
	e.Description = strings.TrimSpace(in.Description)
	e.Duration = in.Duration
	e.VideoURL = strings.TrimSpace(in.VideoURL)
	e.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
}

func findSeason(ctx context.Context, db *gorm.DB, id string) (*shows.Season, error) {
	var season shows.Season
	if err := db.WithContext(ctx).Where("id = ?", id).First(&season).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewNotFoundError("season not found")
		}
		return nil, fmt.Errorf("failed to load season: %w", err)
	}
	return &season, nil
}

func findEpisode(ctx context.Context, db *gorm.DB, id string) (*shows.Episode, error) {
	var episode shows.Episode
	if err := db.WithContext(ctx).Where("id = ?", id).First(&episode).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewNotFoundError("episode not found")
		}
		return nil, fmt.Errorf("failed to load episode: %w", err)
	}
	return &episode, nil
}

func AddSeason(ctx context.Context, showID string, in lib.SeasonInput) (*shows.Season, error) {
	if in.SeasonNumber < 1 {
		return nil, utils.NewBadRequestError("seasonNumber must be at least 1")
	}

	season := shows.Season{ID: utils.GenerateID(), TvShowID: showID}
	applySeasonInput(&season, in)

	err := config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findShow(ctx, tx, showID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&season).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				return utils.NewConflictError(fmt.Sprintf("season %d already exists", in.SeasonNumber))
			}
			return fmt.Errorf("failed to create season: %w", err)
		}
		return syncSeasonCount(tx, showID)
	})
	if err != nil {
		return nil, err
	}

	invalidateShow(ctx, showID)
	return &season, nil
}

func UpdateSeason(ctx context.Context, seasonID string, in lib.SeasonInput) (*shows.Season, error) {
	if in.SeasonNumber < 1 {
		return nil, utils.NewBadRequestError("seasonNumber must be at least 1")
	}

	season, err := findSeason(ctx, config.DB, seasonID)
	if err != nil {
		return nil, err
	}
	applySeasonInput(season, in)
	if err := config.DB.WithContext(ctx).Omit(clause.Associations).Save(season).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, utils.NewConflictError(fmt.Sprintf("season %d already exists", in.SeasonNumber))
		}
		return nil, fmt.Errorf("failed to update season: %w", err)
	}

	invalidateShow(ctx, season.TvShowID)
	return season, nil
}

// DeleteSeason removes the season and its episodes.
func DeleteSeason(ctx context.Context, seasonID string) error {
	season, err := findSeason(ctx, config.DB, seasonID)
	if err != nil {
		return err
	}

	err = config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("season_id = ?", season.ID).Delete(&shows.Episode{}).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Delete(season).Error; err != nil {
			return err
		}
		return syncSeasonCount(tx, season.TvShowID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete season: %w", err)
	}

	invalidateShow(ctx, season.TvShowID)
	return nil
}

func AddEpisode(ctx context.Context, seasonID string, in lib.EpisodeInput) (*shows.Episode, error) {
	if in.EpisodeNumber < 1 {
		return nil, utils.NewBadRequestError("episodeNumber must be at least 1")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, utils.NewBadRequestError("title is required")
	}

	season, err := findSeason(ctx, config.DB, seasonID)
	if err != nil {
		return nil, err
	}

	episode := shows.Episode{ID: utils.GenerateID(), SeasonID: season.ID}
	applyEpisodeInput(&episode, in)
	if err := config.DB.WithContext(ctx).Create(&episode).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, utils.NewConflictError(fmt.Sprintf("episode %d already exists", in.EpisodeNumber))
		}
		return nil, fmt.Errorf("failed to create episode: %w", err)
	}

	invalidateShow(ctx, season.TvShowID)
	return &episode, nil
}

func UpdateEpisode(ctx context.Context, episodeID string, in lib.EpisodeInput) (*shows.Episode, error) {
	if in.EpisodeNumber < 1 {
		return nil, utils.NewBadRequestError("episodeNumber must be at least 1")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, utils.NewBadRequestError("title is required")
	}

	episode, err := findEpisode(ctx, config.DB, episodeID)
	if err != nil {
		return nil, err
	}
	season, err := findSeason(ctx, config.DB, episode.SeasonID)
	if err != nil {
		return nil, err
	}

	applyEpisodeInput(episode, in)
	if err := config.DB.WithContext(ctx).Save(episode).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, utils.NewConflictError(fmt.Sprintf("episode %d already exists", in.EpisodeNumber))
		}
		return nil, fmt.Errorf("failed to update episode: %w", err)
	}

	invalidateShow(ctx, season.TvShowID)
	return episode, nil
}

func DeleteEpisode(ctx context.Context, episodeID string) error {
	episode, err := findEpisode(ctx, config.DB, episodeID)
	if err != nil {
		return err
	}
	season, err := findSeason(ctx, config.DB, episode.SeasonID)
	if err != nil {
		return err
	}

	if err := config.DB.WithContext(ctx).Delete(episode).Error; err != nil {
		return fmt.Errorf("failed to delete episode: %w", err)
	}

	invalidateShow(ctx, season.TvShowID)
	return nil
}

func seasonByNumber(ctx context.Context, showID string, number int) (*shows.Season, error) {
	var season shows.Season
	err := config.DB.WithContext(ctx).
		Where("tv_show_id = ? AND season_number = ?", showID, number).
		First(&season).Error
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewNotFoundError("season not found")
		}
		return nil, fmt.Errorf("failed to load season: %w", err)
	}
	return &season, nil
}

func GetEpisode(ctx context.Context, showID string, seasonNumber, episodeNumber int) (*lib.EpisodeResponse, error) {
	season, err := seasonByNumber(ctx, showID, seasonNumber)
	if err != nil {
		return nil, err
	}

	var episode shows.Episode
	err = config.DB.WithContext(ctx).
		Where("season_id = ? AND episode_number = ?", season.ID, episodeNumber).
		First(&episode).Error
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewNotFoundError("episode not found")
		}
		return nil, fmt.Errorf("failed to load episode: %w", err)
	}

	return &lib.EpisodeResponse{ShowID: showID, SeasonNumber: season.SeasonNumber, Episode: episode}, nil
}

// NextEpisode returns the episode after the given one: the next in the same
// season, otherwise the first episode of the next season that has any.
func NextEpisode(ctx context.Context, showID string, seasonNumber, episodeNumber int) (*lib.EpisodeResponse, error) {
	current, err := seasonByNumber(ctx, showID, seasonNumber)
	if err != nil {
		return nil, err
	}

	db := config.DB.WithContext(ctx)

	var next shows.Episode
	err = db.Where("season_id = ? AND episode_number > ?", current.ID, episodeNumber).
		Order("episode_number ASC").
		Take(&next).Error
	if err == nil {
		return &lib.EpisodeResponse{ShowID: showID, SeasonNumber: current.SeasonNumber, Episode: next}, nil
	}
	if !utils.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load next episode: %w", err)
	}

	var later []shows.Season
	err = db.Where("tv_show_id = ? AND season_number > ?", showID, seasonNumber).
		Order("season_number ASC").
		Find(&later).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load seasons: %w", err)
	}
	for _, season := range later {
		var first shows.Episode
		err := db.Where("season_id = ?", season.ID).
			Order("episode_number ASC").
			Take(&first).Error
		if err == nil {
			return &lib.EpisodeResponse{ShowID: showID, SeasonNumber: season.SeasonNumber, Episode: first}, nil
		}
		if !utils.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load episode: %w", err)
		}
	}

	return nil, utils.NewNotFoundError("no next episode")
}

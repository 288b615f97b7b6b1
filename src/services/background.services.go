package services

import (
	"context"
	"fmt"
	"time"

	"nefllix/src/config"
	"nefllix/src/logger"
	authServices "nefllix/src/modules/auth/services"
	file "nefllix/src/modules/files/services"
	movieServices "nefllix/src/modules/movies/services"
	showServices "nefllix/src/modules/shows/services"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

const (
	thumbnailWorkers = 4
	jobTimeout       = 10 * time.Minute
	staticPathPrefix = "/api/v1/static/"
)

// SetupBackgroundJobs registers and starts the cron jobs. The caller stops
// the returned scheduler on shutdown.
func SetupBackgroundJobs() (*cron.Cron, error) {
	c := cron.New()

	jobs := []struct {
		spec string
		name string
		run  func(context.Context) error
	}{
		{"@every 1h", "expired-sessions", CleanupExpired},
		{"@every 30m", "thumbnail-mirror", MirrorThumbnails},
		{"@every 15m", "genre-cache", WarmGenreCache},
	}

	for _, job := range jobs {
		_, err := c.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := job.run(ctx); err != nil {
				logger.Error("[Cron] job failed", "job", job.name, "err", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", job.name, err)
		}
	}

	c.Start()
	logger.Info("[Cron] background jobs initialized", "jobs", len(jobs))
	return c, nil
}

// CleanupExpired purges expired sessions and verification tokens.
func CleanupExpired(ctx context.Context) error {
	sessions, tokens, err := authServices.DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	logger.Info("[Cleanup] removed expired records", "sessions", sessions, "verification_tokens", tokens)
	return nil
}

// WarmGenreCache recomputes the genre group-by ahead of readers.
func WarmGenreCache(ctx context.Context) error {
	n, err := movieServices.WarmGenres(ctx)
	if err != nil {
		return err
	}
	logger.Debug("[Genres] cache warmed", "genres", n)
	return nil
}

type thumbnailTarget struct {
	kind string
	id   string
	url  string
	save func(context.Context, string, string) error
}

// MirrorThumbnails copies movie and show thumbnails still served from the
// media origin into the bucket and points the rows at the static proxy.
func MirrorThumbnails(ctx context.Context) error {
	origin := config.App.MediaOriginURL
	if origin == "" {
		return nil
	}
	prefix := origin + "/"

	movieRows, err := movieServices.RemoteThumbnails(ctx, prefix)
	if err != nil {
		return err
	}
	showRows, err := showServices.RemoteThumbnails(ctx, prefix)
	if err != nil {
		return err
	}

	targets := make([]thumbnailTarget, 0, len(movieRows)+len(showRows))
	for _, m := range movieRows {
		targets = append(targets, thumbnailTarget{"movie", m.ID, m.ThumbnailURL, movieServices.SetThumbnail})
	}
	for _, s := range showRows {
		targets = append(targets, thumbnailTarget{"show", s.ID, s.ThumbnailURL, showServices.SetThumbnail})
	}
	logger.Info("[ImageSync] found thumbnails to mirror", "count", len(targets))

	var g errgroup.Group
	g.SetLimit(thumbnailWorkers)
	for _, t := range targets {
		g.Go(func() error {
			key, err := file.MirrorRemoteAsset(ctx, t.url)
			if err != nil {
				logger.Warn("[ImageSync] mirror failed", t.kind+"_id", t.id, "url", t.url, "err", err)
				return nil
			}
			if err := t.save(ctx, t.id, staticPathPrefix+key); err != nil {
				logger.Warn("[ImageSync] failed to update row", t.kind+"_id", t.id, "err", err)
				return nil
			}
			logger.Debug("[ImageSync] updated thumbnail", t.kind+"_id", t.id, "key", key)
			return nil
		})
	}
	return g.Wait()
}

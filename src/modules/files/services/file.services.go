package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"nefllix/src/cache"
	"nefllix/src/config"
	"nefllix/src/logger"
	"nefllix/src/utils"
)

const (
	imageCacheTTL    = 6 * time.Hour
	maxCachedBytes   = 5 << 20
	defaultFolder    = "uploads"
	downloadTimeout  = 30 * time.Second
	imageCachePrefix = "image_cache:"
	remoteMirrorDir  = "remote"
)

var (
	folderPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-/]+$`)
	httpClient    = &http.Client{Timeout: downloadTimeout}
)

// CleanObjectKey turns a request path into a bucket key.
func CleanObjectKey(p string) (string, error) {
	key := strings.TrimPrefix(strings.TrimSpace(p), "/")
	if key == "" {
		return "", utils.NewBadRequestError("invalid filepath")
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", utils.NewBadRequestError("invalid filepath")
		}
	}
	return key, nil
}

func detectContentType(data []byte, stored string) string {
	if stored != "" {
		return stored
	}
	return http.DetectContentType(data)
}

// FileService serves an object from the bucket through the image cache. A
// missing object is mirrored from the media origin when one is configured.
func FileService(ctx context.Context, filePath string) (io.Reader, int64, string, error) {
	objectKey, err := CleanObjectKey(filePath)
	if err != nil {
		return nil, 0, "", err
	}
	cacheKey := imageCachePrefix + objectKey

	if cached, cachedType, ok := cache.GetBlob(ctx, cacheKey); ok {
		logger.Debug("[Files] cache hit", "key", cacheKey)
		return bytes.NewReader(cached), int64(len(cached)), detectContentType(cached, cachedType), nil
	}

	s, err := store()
	if err != nil {
		return nil, 0, "", err
	}

	data, contentType, err := s.Get(ctx, objectKey)
	if errors.Is(err, ErrObjectNotFound) && config.App.MediaOriginURL != "" {
		if _, mirrorErr := MirrorRemoteAsset(ctx, config.App.MediaOriginURL+"/"+objectKey); mirrorErr != nil {
			logger.Warn("[Files] origin mirror failed", "key", objectKey, "err", mirrorErr)
			return nil, 0, "", utils.NewNotFoundError(fmt.Sprintf("object not found: %s", objectKey))
		}
		data, contentType, err = s.Get(ctx, objectKey)
	}
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, 0, "", utils.NewNotFoundError(fmt.Sprintf("object not found: %s", objectKey))
		}
		return nil, 0, "", fmt.Errorf("failed to read object %s: %w", objectKey, err)
	}

	contentType = detectContentType(data, contentType)
	if len(data) <= maxCachedBytes {
		cache.SetBlob(ctx, cacheKey, data, contentType, imageCacheTTL)
	}
	return bytes.NewReader(data), int64(len(data)), contentType, nil
}

// UploadFile stores r as <folder>/<uuid><ext> and returns the object key.
func UploadFile(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = defaultFolder
	}
	if !folderPattern.MatchString(folder) || strings.Contains(folder, "..") {
		return "", utils.NewBadRequestError("invalid folder")
	}

	s, err := store()
	if err != nil {
		return "", err
	}

	key := folder + "/" + utils.GenerateID() + strings.ToLower(path.Ext(filename))
	if err := s.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	logger.Info("[Files] uploaded object", "key", key, "size", size)
	return key, nil
}

// RemoteObjectKey maps a remote URL to its bucket key. URLs under the media
// origin keep their relative path so FileService can find them again.
func RemoteObjectKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", utils.NewBadRequestError("invalid remote url")
	}

	var key string
	if origin := config.App.MediaOriginURL; origin != "" && strings.HasPrefix(rawURL, origin+"/") {
		key = strings.TrimPrefix(rawURL, origin+"/")
		if i := strings.IndexAny(key, "?#"); i >= 0 {
			key = key[:i]
		}
	} else {
		key = remoteMirrorDir + "/" + u.Host + u.Path
	}
	return CleanObjectKey(key)
}

// MirrorRemoteAsset copies a remote file into the bucket unless it is already
// there, and returns the object key.
func MirrorRemoteAsset(ctx context.Context, rawURL string) (string, error) {
	key, err := RemoteObjectKey(rawURL)
	if err != nil {
		return "", err
	}

	s, err := store()
	if err != nil {
		return "", err
	}
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", key, err)
	}
	if exists {
		return key, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status when downloading %s: %d", rawURL, resp.StatusCode)
	}

	if err := s.Put(ctx, key, resp.Body, resp.ContentLength, resp.Header.Get("Content-Type")); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", key, err)
	}

	logger.Info("[Files] mirrored remote asset", "url", rawURL, "key", key)
	return key, nil
}

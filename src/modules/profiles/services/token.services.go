package profiles

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"nefllix/src/config"
	"nefllix/src/logger"
	"nefllix/src/utils"

	"github.com/golang-jwt/jwt/v5"
)

const ProfileTokenTTL = 12 * time.Hour

// ProfileClaims grants access to one profile on behalf of its owner.
type ProfileClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

var (
	fallbackSecret     []byte
	fallbackSecretOnce sync.Once
)

func profileSecret() []byte {
	if config.App.ProfileTokenSecret != "" {
		return []byte(config.App.ProfileTokenSecret)
	}
	fallbackSecretOnce.Do(func() {
		fallbackSecret = make([]byte, 32)
		_, _ = rand.Read(fallbackSecret)
		logger.Warn("[Profiles] PROFILE_TOKEN_SECRET not set, profile tokens will not survive a restart")
	})
	return fallbackSecret
}

// IssueProfileToken signs a short-lived token for profileID.
func IssueProfileToken(userID, profileID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ProfileTokenTTL)
	claims := ProfileClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        utils.GenerateID(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(profileSecret())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign profile token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyProfileToken checks that token was issued for this user and profile.
func VerifyProfileToken(token, userID, profileID string) error {
	if token == "" {
		return utils.NewForbiddenError("profile is locked")
	}

	claims := &ProfileClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return profileSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return utils.NewForbiddenError("invalid profile token")
	}
	if claims.Subject != profileID || claims.UserID != userID {
		return utils.NewForbiddenError("profile token does not match profile")
	}
	return nil
}

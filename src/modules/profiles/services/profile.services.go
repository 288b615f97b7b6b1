package profiles

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"nefllix/src/config"
	"nefllix/src/logger"
	libraryModels "nefllix/src/modules/library/models"
	lib "nefllix/src/modules/profiles/lib"
	profiles "nefllix/src/modules/profiles/models"
	"nefllix/src/utils"

	"gorm.io/gorm"
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

func validatePin(pin string) *utils.ServiceError {
	if !pinPattern.MatchString(pin) {
		return utils.NewBadRequestError("pin must be exactly 4 digits")
	}
	return nil
}

func cleanAvatar(avatar *string) *string {
	if avatar == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*avatar)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func CreateProfile(ctx context.Context, userID string, req lib.CreateProfileRequest) (*profiles.Profile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utils.NewBadRequestError("name is required")
	}

	profile := profiles.Profile{
		ID:     utils.GenerateID(),
		UserID: userID,
		Name:   name,
		Avatar: cleanAvatar(req.Avatar),
	}
	if req.Pin != "" {
		if verr := validatePin(req.Pin); verr != nil {
			return nil, verr
		}
		hash, err := utils.HashPassword(req.Pin)
		if err != nil {
			return nil, fmt.Errorf("failed to hash pin: %w", err)
		}
		profile.PinHash = hash
		profile.IsLocked = true
	}

	err := config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&profiles.Profile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count >= profiles.MaxProfilesPerUser {
			return utils.NewBadRequestError(fmt.Sprintf("a user can have at most %d profiles", profiles.MaxProfilesPerUser))
		}
		if err := tx.Create(&profile).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				return utils.NewConflictError("a profile with this name already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[Profiles] created profile", "user_id", userID, "profile_id", profile.ID)
	return &profile, nil
}

func ListProfiles(ctx context.Context, userID string) ([]profiles.Profile, error) {
	list := make([]profiles.Profile, 0)
	if err := config.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return list, nil
}

// GetProfile loads a profile owned by userID. Profiles of other users are
// reported as missing.
func GetProfile(ctx context.Context, userID, profileID string) (*profiles.Profile, error) {
	var profile profiles.Profile
	err := config.DB.WithContext(ctx).Where("id = ? AND user_id = ?", profileID, userID).First(&profile).Error
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewNotFoundError("profile not found")
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

func UpdateProfile(ctx context.Context, userID, profileID string, req lib.UpdateProfileRequest) (*profiles.Profile, error) {
	profile, err := GetProfile(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, utils.NewBadRequestError("name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Avatar != nil {
		updates["avatar"] = cleanAvatar(req.Avatar)
	}
	if len(updates) == 0 {
		return profile, nil
	}

	if err := config.DB.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, utils.NewConflictError("a profile with this name already exists")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return GetProfile(ctx, userID, profileID)
}

// DeleteProfile removes the profile and its favourites, watched and watching records.
func DeleteProfile(ctx context.Context, userID, profileID string) error {
	profile, err := GetProfile(ctx, userID, profileID)
	if err != nil {
		return err
	}

	err = config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := libraryModels.DeleteForProfiles(tx, []string{profile.ID}); err != nil {
			return err
		}
		return tx.Delete(profile).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// SetPin locks the profile with newPin. A locked profile must present its current pin.
func SetPin(ctx context.Context, userID, profileID, currentPin, newPin string) (*profiles.Profile, error) {
	profile, err := GetProfile(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	if profile.IsLocked && !utils.CheckPassword(currentPin, profile.PinHash) {
		return nil, utils.NewForbiddenError("current pin is incorrect")
	}
	if verr := validatePin(newPin); verr != nil {
		return nil, verr
	}

	hash, err := utils.HashPassword(newPin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}
	updates := map[string]interface{}{"pin_hash": hash, "is_locked": true}
	if err := config.DB.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to set pin: %w", err)
	}
	return GetProfile(ctx, userID, profileID)
}

func RemovePin(ctx context.Context, userID, profileID, currentPin string) (*profiles.Profile, error) {
	profile, err := GetProfile(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	if !profile.IsLocked {
		return profile, nil
	}
	if !utils.CheckPassword(currentPin, profile.PinHash) {
		return nil, utils.NewForbiddenError("current pin is incorrect")
	}

	updates := map[string]interface{}{"pin_hash": "", "is_locked": false}
	if err := config.DB.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to remove pin: %w", err)
	}
	return GetProfile(ctx, userID, profileID)
}

// UnlockProfile checks the pin of a locked profile and returns a profile token.
func UnlockProfile(ctx context.Context, userID, profileID, pin string) (*lib.UnlockResponse, error) {
	profile, err := GetProfile(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	if profile.IsLocked && !utils.CheckPassword(pin, profile.PinHash) {
		logger.Warn("[Profiles] wrong pin", "profile_id", profileID)
		return nil, utils.NewForbiddenError("incorrect pin")
	}

	token, expiresAt, err := IssueProfileToken(userID, profileID)
	if err != nil {
		return nil, err
	}
	return &lib.UnlockResponse{Token: token, ExpiresAt: expiresAt.Unix()}, nil
}

// AuthorizeProfile loads the profile for userID and, when it is locked,
// requires a matching profile token.
func AuthorizeProfile(ctx context.Context, userID, profileID, profileToken string) (*profiles.Profile, error) {
	profile, err := GetProfile(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	if profile.IsLocked {
		if err := VerifyProfileToken(profileToken, userID, profileID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

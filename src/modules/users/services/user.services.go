package users

import (
	"context"
	"fmt"
	"strings"

	"nefllix/src/config"
	"nefllix/src/logger"
	authModels "nefllix/src/modules/auth/models"
	libraryModels "nefllix/src/modules/library/models"
	profileModels "nefllix/src/modules/profiles/models"
	lib "nefllix/src/modules/users/lib"
	users "nefllix/src/modules/users/models"
	"nefllix/src/utils"

	"gorm.io/gorm"
)

func GetUser(ctx context.Context, id string) (*users.User, error) {
	var user users.User
	if err := config.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func FindUserByEmail(ctx context.Context, email string) (*users.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, utils.NewBadRequestError("email is required")
	}

	var user users.User
	if err := config.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to load user by email: %w", err)
	}
	return &user, nil
}

func UpdateUser(ctx context.Context, id string, req lib.UpdateUserRequest) (*users.User, error) {
	user, err := GetUser(ctx, id)
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
	if req.Image != nil {
		if image := strings.TrimSpace(*req.Image); image == "" {
			updates["image"] = nil
		} else {
			updates["image"] = image
		}
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := config.DB.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return GetUser(ctx, id)
}

// ChangePassword sets a new credentials password. Users that signed up through
// a provider may set their first password without a current one.
func ChangePassword(ctx context.Context, id, current, next string) error {
	user, err := GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.HasPassword() && !utils.CheckPassword(current, *user.HashedPassword) {
		return utils.NewUnauthorizedError("current password is incorrect")
	}
	if verr := utils.ValidatePassword(next); verr != nil {
		return verr
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := config.DB.WithContext(ctx).Model(user).Update("hashed_password", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// DeleteUser removes the user together with every profile, library record,
// session, account and pending verification token they own.
func DeleteUser(ctx context.Context, id string) error {
	user, err := GetUser(ctx, id)
	if err != nil {
		return err
	}

	err = config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profileIDs []string
		if err := tx.Model(&profileModels.Profile{}).Where("user_id = ?", id).Pluck("id", &profileIDs).Error; err != nil {
			return err
		}
		if err := libraryModels.DeleteForProfiles(tx, profileIDs); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&profileModels.Profile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&authModels.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&authModels.Account{}).Error; err != nil {
			return err
		}
		if user.Email != nil {
			if err := tx.Where("identifier = ?", *user.Email).Delete(&authModels.VerificationToken{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logger.Info("[Users] deleted user", "user_id", id)
	return nil
}

func CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := config.DB.WithContext(ctx).Model(&users.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

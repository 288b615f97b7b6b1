package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nefllix/src/config"
	"nefllix/src/logger"
	lib "nefllix/src/modules/auth/lib"
	auth "nefllix/src/modules/auth/models"
	users "nefllix/src/modules/users/models"
	"nefllix/src/utils"

	"gorm.io/gorm"
)

const (
	sessionTokenBytes      = 32
	verificationTokenBytes = 32
	DefaultVerificationTTL = 24 * time.Hour
)

var (
	errInvalidCredentials = utils.NewUnauthorizedError("invalid email or password")
	errExpiredToken       = errors.New("verification token expired")
)

// Register creates a credentials user and issues an email verification token.
func Register(ctx context.Context, req lib.RegisterRequest) (*users.User, string, error) {
	name := strings.TrimSpace(req.Name)
	email := utils.NormalizeEmail(req.Email)
	if name == "" || email == "" {
		return nil, "", utils.NewBadRequestError("name and email are required")
	}
	if verr := utils.ValidatePassword(req.Password); verr != nil {
		return nil, "", verr
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := users.User{
		ID:             utils.GenerateID(),
		Name:           name,
		Email:          &email,
		HashedPassword: &hash,
	}
	if err := config.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, "", utils.NewConflictError("email already registered")
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := CreateVerificationToken(ctx, email, DefaultVerificationTTL)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("[Auth] verification token issued", "identifier", email, "token", token)
	logger.Info("[Auth] registered user", "user_id", user.ID)

	return &user, token, nil
}

// Login checks credentials and opens a new session.
func Login(ctx context.Context, email, password string) (*auth.Session, *users.User, error) {
	email = utils.NormalizeEmail(email)

	var user users.User
	if err := config.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.HasPassword() || !utils.CheckPassword(password, *user.HashedPassword) {
		return nil, nil, errInvalidCredentials
	}

	session, err := CreateSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, &user, nil
}

func CreateSession(ctx context.Context, userID string) (*auth.Session, error) {
	token, err := utils.RandomToken(sessionTokenBytes)
	if err != nil {
		return nil, err
	}
	session := auth.Session{
		ID:           utils.GenerateID(),
		SessionToken: token,
		UserID:       userID,
		Expires:      time.Now().Add(config.App.SessionMaxAge),
	}
	if err := config.DB.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// Logout deletes the session. Unknown tokens are not an error.
func Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	if err := config.DB.WithContext(ctx).Where("session_token = ?", sessionToken).Delete(&auth.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetSessionAndUser resolves a session token. Expired sessions are removed,
// and sessions older than the update age get their expiry pushed forward.
func GetSessionAndUser(ctx context.Context, sessionToken string) (*auth.Session, *users.User, error) {
	if sessionToken == "" {
		return nil, nil, utils.NewUnauthorizedError("missing session token")
	}
	db := config.DB.WithContext(ctx)

	var session auth.Session
	if err := db.Where("session_token = ?", sessionToken).First(&session).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, nil, utils.NewUnauthorizedError("invalid session")
		}
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	now := time.Now()
	if !session.Expires.After(now) {
		_ = db.Delete(&session).Error
		return nil, nil, utils.NewUnauthorizedError("session expired")
	}

	var user users.User
	if err := db.Where("id = ?", session.UserID).First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			_ = db.Delete(&session).Error
			return nil, nil, utils.NewUnauthorizedError("invalid session")
		}
		return nil, nil, fmt.Errorf("failed to load session user: %w", err)
	}

	issuedAt := session.Expires.Add(-config.App.SessionMaxAge)
	if now.Sub(issuedAt) > config.App.SessionUpdateAge {
		newExpiry := now.Add(config.App.SessionMaxAge)
		if err := db.Model(&session).Update("expires", newExpiry).Error; err != nil {
			logger.Warn("[Auth] failed to extend session", "session_id", session.ID, "err", err)
		} else {
			session.Expires = newExpiry
		}
	}

	return &session, &user, nil
}

func ListSessions(ctx context.Context, userID string) ([]auth.Session, error) {
	var sessions []auth.Session
	err := config.DB.WithContext(ctx).
		Where("user_id = ? AND expires > ?", userID, time.Now()).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// RevokeOtherSessions signs the user out everywhere except keepToken.
func RevokeOtherSessions(ctx context.Context, userID, keepToken string) (int64, error) {
	res := config.DB.WithContext(ctx).
		Where("user_id = ? AND session_token <> ?", userID, keepToken).
		Delete(&auth.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func accountFromRequest(userID string, req lib.LinkAccountRequest) auth.Account {
	return auth.Account{
		ID:                utils.GenerateID(),
		UserID:            userID,
		Type:              strings.TrimSpace(req.Type),
		Provider:          strings.ToLower(strings.TrimSpace(req.Provider)),
		ProviderAccountID: strings.TrimSpace(req.ProviderAccountID),
		RefreshToken:      req.RefreshToken,
		AccessToken:       req.AccessToken,
		ExpiresAt:         req.ExpiresAt,
		TokenType:         req.TokenType,
		Scope:             req.Scope,
		IDToken:           req.IDToken,
		SessionState:      req.SessionState,
	}
}

func createAccount(tx *gorm.DB, account *auth.Account) error {
	if account.Provider == "" || account.ProviderAccountID == "" {
		return utils.NewBadRequestError("provider and providerAccountId are required")
	}
	if err := tx.Create(account).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return utils.NewConflictError("account already linked")
		}
		return fmt.Errorf("failed to link account: %w", err)
	}
	return nil
}

func LinkAccount(ctx context.Context, userID string, req lib.LinkAccountRequest) (*auth.Account, error) {
	var count int64
	if err := config.DB.WithContext(ctx).Model(&users.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return nil, utils.NewNotFoundError("user not found")
	}

	account := accountFromRequest(userID, req)
	if err := createAccount(config.DB.WithContext(ctx), &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// SignInWithAccount resolves a provider identity to a user, linking or
// creating one when needed, and opens a session. The bool reports whether a
// new user was created.
func SignInWithAccount(ctx context.Context, req lib.OAuthSignInRequest) (*auth.Session, *users.User, bool, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	providerAccountID := strings.TrimSpace(req.ProviderAccountID)

	var user users.User
	created := false

	err := config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account auth.Account
		err := tx.Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).First(&account).Error
		if err == nil {
			if err := tx.Where("id = ?", account.UserID).First(&user).Error; err != nil {
				return fmt.Errorf("failed to load account user: %w", err)
			}
			return nil
		}
		if !utils.IsNotFound(err) {
			return fmt.Errorf("failed to load account: %w", err)
		}

		email := utils.NormalizeEmail(req.Email)
		found := false
		if email != "" {
			err := tx.Where("email = ?", email).First(&user).Error
			switch {
			case err == nil:
				found = true
			case !utils.IsNotFound(err):
				return fmt.Errorf("failed to load user by email: %w", err)
			}
		}

		if !found {
			name := strings.TrimSpace(req.Name)
			if name == "" {
				name = email
			}
			if name == "" {
				return utils.NewBadRequestError("name or email is required for new users")
			}
			user = users.User{ID: utils.GenerateID(), Name: name}
			if email != "" {
				user.Email = &email
			}
			if image := strings.TrimSpace(req.Image); image != "" {
				user.Image = &image
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			created = true
		}

		account = accountFromRequest(user.ID, req.LinkAccountRequest)
		return createAccount(tx, &account)
	})
	if err != nil {
		return nil, nil, false, err
	}

	session, err := CreateSession(ctx, user.ID)
	if err != nil {
		return nil, nil, false, err
	}
	logger.Info("[Auth] provider sign-in", "provider", provider, "user_id", user.ID, "new_user", created)
	return session, &user, created, nil
}

func UnlinkAccount(ctx context.Context, userID, provider, providerAccountID string) error {
	res := config.DB.WithContext(ctx).
		Where("user_id = ? AND provider = ? AND provider_account_id = ?", userID, strings.ToLower(provider), providerAccountID).
		Delete(&auth.Account{})
	if res.Error != nil {
		return fmt.Errorf("failed to unlink account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NewNotFoundError("account not found")
	}
	return nil
}

func GetAccountsForUser(ctx context.Context, userID string) ([]lib.AccountView, error) {
	var accounts []auth.Account
	if err := config.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	views := make([]lib.AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, lib.AccountView{Account: a, TokenValid: a.Token().Valid()})
	}
	return views, nil
}

// CreateVerificationToken stores the digest of a fresh token and returns the raw token.
func CreateVerificationToken(ctx context.Context, identifier string, ttl time.Duration) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", utils.NewBadRequestError("identifier is required")
	}
	if ttl <= 0 {
		ttl = DefaultVerificationTTL
	}

	token, err := utils.RandomToken(verificationTokenBytes)
	if err != nil {
		return "", err
	}
	record := auth.VerificationToken{
		Identifier: identifier,
		Token:      utils.HashToken(token),
		Expires:    time.Now().Add(ttl),
	}
	if err := config.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to create verification token: %w", err)
	}
	return token, nil
}

// UseVerificationToken consumes a token. A token whose identifier is a user's
// email marks that email verified.
func UseVerificationToken(ctx context.Context, identifier, token string) (*auth.VerificationToken, error) {
	identifier = strings.TrimSpace(identifier)
	var record auth.VerificationToken

	err := config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("identifier = ? AND token = ?", identifier, utils.HashToken(token)).First(&record).Error
		if err != nil {
			if utils.IsNotFound(err) {
				return utils.NewBadRequestError("invalid verification token")
			}
			return fmt.Errorf("failed to load verification token: %w", err)
		}
		if err := tx.Where("identifier = ? AND token = ?", record.Identifier, record.Token).Delete(&auth.VerificationToken{}).Error; err != nil {
			return fmt.Errorf("failed to consume verification token: %w", err)
		}
		if !record.Expires.After(time.Now()) {
			return errExpiredToken
		}
		return tx.Model(&users.User{}).
			Where("email = ?", utils.NormalizeEmail(identifier)).
			Update("email_verified", time.Now()).Error
	})
	if errors.Is(err, errExpiredToken) {
		// The expired token is still removed.
		_ = config.DB.WithContext(ctx).Where("identifier = ? AND token = ?", record.Identifier, record.Token).Delete(&auth.VerificationToken{}).Error
		return nil, utils.NewBadRequestError("verification token expired")
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteExpired purges expired sessions and verification tokens.
func DeleteExpired(ctx context.Context, now time.Time) (int64, int64, error) {
	db := config.DB.WithContext(ctx)

	sessions := db.Where("expires <= ?", now).Delete(&auth.Session{})
	if sessions.Error != nil {
		return 0, 0, fmt.Errorf("failed to delete expired sessions: %w", sessions.Error)
	}
	tokens := db.Where("expires <= ?", now).Delete(&auth.VerificationToken{})
	if tokens.Error != nil {
		return sessions.RowsAffected, 0, fmt.Errorf("failed to delete expired verification tokens: %w", tokens.Error)
	}
	return sessions.RowsAffected, tokens.RowsAffected, nil
}

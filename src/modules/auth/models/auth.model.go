package auth

import (
	"time"

	"nefllix/src/utils"

	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

var encryptor *utils.TokenEncryptor

// InitEncryption sets the key used for provider tokens at rest. Without it
// tokens are stored as given.
func InitEncryption(base64Key string) error {
	if base64Key == "" {
		encryptor = nil
		return nil
	}
	enc, err := utils.NewTokenEncryptor(base64Key)
	if err != nil {
		return err
	}
	encryptor = enc
	return nil
}

// Account links a user to an external identity provider.
type Account struct {
	ID                string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string    `json:"userId" gorm:"not null;index;type:varchar(36)"`
	Type              string    `json:"type" gorm:"not null"`
	Provider          string    `json:"provider" gorm:"not null;uniqueIndex:idx_accounts_provider_account;type:varchar(128)"`
	ProviderAccountID string    `json:"providerAccountId" gorm:"not null;uniqueIndex:idx_accounts_provider_account;type:varchar(255)"`
	RefreshToken      string    `json:"-" gorm:"type:text"`
	AccessToken       string    `json:"-" gorm:"type:text"`
	ExpiresAt         *int64    `json:"expiresAt"`
	TokenType         string    `json:"tokenType"`
	Scope             string    `json:"scope"`
	IDToken           string    `json:"-" gorm:"type:text"`
	SessionState      string    `json:"sessionState"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// BeforeSave encrypts provider tokens. GCM uses a random nonce, so the stored
// value changes on every save.
func (a *Account) BeforeSave(tx *gorm.DB) error {
	if encryptor == nil {
		return nil
	}
	for _, field := range []*string{&a.AccessToken, &a.RefreshToken, &a.IDToken} {
		if *field == "" {
			continue
		}
		encrypted, err := encryptor.Encrypt(*field)
		if err != nil {
			return err
		}
		*field = encrypted
	}
	return nil
}

// AfterSave restores plaintext on the in-memory struct.
func (a *Account) AfterSave(tx *gorm.DB) error {
	return a.decrypt()
}

func (a *Account) AfterFind(tx *gorm.DB) error {
	return a.decrypt()
}

func (a *Account) decrypt() error {
	if encryptor == nil {
		return nil
	}
	for _, field := range []*string{&a.AccessToken, &a.RefreshToken, &a.IDToken} {
		if *field == "" {
			continue
		}
		decrypted, err := encryptor.Decrypt(*field)
		if err != nil {
			return err
		}
		*field = decrypted
	}
	return nil
}

// Token exposes the stored credentials as an oauth2 token.
func (a *Account) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		TokenType:    a.TokenType,
	}
	if a.ExpiresAt != nil {
		tok.Expiry = time.Unix(*a.ExpiresAt, 0)
	}
	return tok
}

type Session struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionToken string    `json:"-" gorm:"not null;uniqueIndex;type:varchar(128)"`
	UserID       string    `json:"userId" gorm:"not null;index;type:varchar(36)"`
	Expires      time.Time `json:"expires" gorm:"not null;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// VerificationToken holds a one-time token digest for an identifier, usually an email.
type VerificationToken struct {
	Identifier string    `json:"identifier" gorm:"primaryKey;type:varchar(320)"`
	Token      string    `json:"-" gorm:"primaryKey;uniqueIndex;type:varchar(64)"`
	Expires    time.Time `json:"expires" gorm:"not null;index"`
}

func MigrateAuth(db *gorm.DB) error {
	return db.AutoMigrate(&Account{}, &Session{}, &VerificationToken{})
}

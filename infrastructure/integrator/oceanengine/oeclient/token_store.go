package oeclient

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// CachedToken is the on-disk token cache. Expiry instants are stored as
// epoch seconds so the file stays portable across timezones.
type CachedToken struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	ExpiresAtEpoch        int64  `json:"expires_at_epoch"`
	RefreshExpiresAtEpoch int64  `json:"refresh_expires_at_epoch"`
	AppID                 string `json:"app_id"`
	TokenSource           string `json:"token_source"`
	UpdatedAt             string `json:"updated_at"`
}

// AccessTokenValid reports whether the cached access token is still usable
// with the given safety margin before its expiry.
func (t *CachedToken) AccessTokenValid(now time.Time, margin time.Duration) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return now.Add(margin).Unix() < t.ExpiresAtEpoch
}

// RefreshTokenValid reports whether the cached refresh token can still be
// exchanged.
func (t *CachedToken) RefreshTokenValid(now time.Time, margin time.Duration) bool {
	if t == nil || t.RefreshToken == "" {
		return false
	}
	if t.RefreshExpiresAtEpoch == 0 {
		// Expiry unknown, let the platform decide.
		return true
	}
	return now.Add(margin).Unix() < t.RefreshExpiresAtEpoch
}

// TokenStore persists the token cache between process runs.
type TokenStore interface {
	Load() (*CachedToken, error)
	Save(token *CachedToken) error
}

// FileTokenStore keeps the cache in a single JSON file.
type FileTokenStore struct {
	Path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

// Load returns the cached token, or nil when no usable cache exists. A
// missing or corrupt file is not an error: the caller falls back to the
// refresh token or auth code.
func (s *FileTokenStore) Load() (*CachedToken, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading token cache")
	}

	token := &CachedToken{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, nil
	}
	return token, nil
}

// Save writes the cache atomically via a temp file rename.
func (s *FileTokenStore) Save(token *CachedToken) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding token cache")
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return errors.Wrap(err, "creating token cache temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "writing token cache")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "closing token cache temp file")
	}

	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "replacing token cache")
	}
	return nil
}

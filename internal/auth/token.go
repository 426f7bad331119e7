package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

const tokenFile = "token.json"

// FileTokenStore persists the session bearer token as an oauth2 token file
// under the user's config directory, surviving between invocations.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates the store, ensuring the config directory exists.
func NewFileTokenStore() (*FileTokenStore, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("could not find user config directory: %w", err)
	}
	dir := filepath.Join(base, "duetrack")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config directory: %w", err)
	}
	return &FileTokenStore{path: filepath.Join(dir, tokenFile)}, nil
}

// Load retrieves the persisted token. A missing file yields an empty token
// with no error.
func (s *FileTokenStore) Load() (string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("could not open token file: %w", err)
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return "", fmt.Errorf("could not decode token file: %w", err)
	}
	return tok.AccessToken, nil
}

// Save writes the token to the file path.
func (s *FileTokenStore) Save(token string) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(&oauth2.Token{AccessToken: token, TokenType: "bearer"})
}

// Clear removes the token file. A missing file is not an error.
func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to remove token file: %w", err)
	}
	return nil
}

// Path returns the location of the token file.
func (s *FileTokenStore) Path() string {
	return s.path
}

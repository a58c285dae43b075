// Package credstore persists LedgerFlow credentials (the authenticating
// email plus the current token pair) between process runs. The OS keyring is
// preferred; when it is unavailable the store falls back to a 0600 JSON file
// written atomically. This is a leaf package — the ledger client never
// touches persistence itself.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

// Keyring identifiers.
const (
	serviceName = "ledgerflow-go"
	keyringKey  = "credentials"
)

// EnvNoKeyring disables the keyring when set, forcing the file fallback.
// Used by tests and headless environments.
const EnvNoKeyring = "LEDGERFLOW_NO_KEYRING"

// File permissions for the fallback path.
const (
	filePerms = 0o600
	dirPerms  = 0o700
)

const credentialsFileName = "credentials.json"

// Credentials is the persisted record. The pair is stored as issued;
// refreshes replace the whole record.
type Credentials struct {
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Store saves and loads one credential record, preferring the system
// keyring with a plaintext file fallback.
type Store struct {
	useKeyring  bool
	fallbackDir string
}

// NewStore creates a credential store. Keyring availability is probed once
// at construction; if the probe fails the store warns and uses the file
// fallback under fallbackDir.
func NewStore(fallbackDir string) *Store {
	if os.Getenv(EnvNoKeyring) != "" {
		return &Store{useKeyring: false, fallbackDir: fallbackDir}
	}

	probeKey := keyringKey + "-probe"
	if err := keyring.Set(serviceName, probeKey, "probe"); err == nil {
		_ = keyring.Delete(serviceName, probeKey)

		return &Store{useKeyring: true, fallbackDir: fallbackDir}
	}

	fmt.Fprintf(os.Stderr, "warning: system keyring unavailable, credentials stored in plaintext at %s\n",
		filepath.Join(fallbackDir, credentialsFileName))

	return &Store{useKeyring: false, fallbackDir: fallbackDir}
}

// Path returns the fallback file location, for user-facing messages.
func (s *Store) Path() string {
	return filepath.Join(s.fallbackDir, credentialsFileName)
}

// Load retrieves the stored credentials. Returns (nil, nil) when none exist.
func (s *Store) Load() (*Credentials, error) {
	if s.useKeyring {
		return s.loadFromKeyring()
	}

	return s.loadFromFile()
}

// Save stores the credentials, replacing any previous record.
func (s *Store) Save(creds *Credentials) error {
	if s.useKeyring {
		return s.saveToKeyring(creds)
	}

	return s.saveToFile(creds)
}

// Delete removes the stored credentials. Absent credentials are not an error.
func (s *Store) Delete() error {
	if s.useKeyring {
		err := keyring.Delete(serviceName, keyringKey)
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}

		return err
	}

	err := os.Remove(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

func (s *Store) loadFromKeyring() (*Credentials, error) {
	data, err := keyring.Get(serviceName, keyringKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil //nolint:nilnil // sentinel for "not found"
	}

	if err != nil {
		return nil, fmt.Errorf("credstore: reading keyring: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, fmt.Errorf("credstore: decoding keyring entry: %w", err)
	}

	return &creds, nil
}

func (s *Store) saveToKeyring(creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("credstore: encoding: %w", err)
	}

	return keyring.Set(serviceName, keyringKey, string(data))
}

func (s *Store) loadFromFile() (*Credentials, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil //nolint:nilnil // sentinel for "not found"
	}

	if err != nil {
		return nil, fmt.Errorf("credstore: reading %s: %w", s.Path(), err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("credstore: decoding %s: %w", s.Path(), err)
	}

	return &creds, nil
}

// saveToFile writes the credentials file atomically (write-to-temp + rename)
// with 0600 permissions. Never logs token values.
func (s *Store) saveToFile(creds *Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("credstore: encoding: %w", err)
	}

	if mkErr := os.MkdirAll(s.fallbackDir, dirPerms); mkErr != nil {
		return fmt.Errorf("credstore: creating directory %s: %w", s.fallbackDir, mkErr)
	}

	// Atomic write: temp file in the same directory, then rename.
	// Same directory guarantees same filesystem for rename(2).
	tmp, err := os.CreateTemp(s.fallbackDir, ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("credstore: creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := os.Chmod(tmpPath, filePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("credstore: setting permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("credstore: writing: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("credstore: syncing: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("credstore: closing: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path()); err != nil {
		return fmt.Errorf("credstore: renaming: %w", err)
	}

	success = true

	return nil
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// UserData holds user-specific state stored locally: bucket preferences and
// the last focused object per bucket, so keyboard focus survives restarts.
type UserData struct {
	MainBucket  string            `json:"main_bucket"`
	LastUsed    string            `json:"last_used"`
	LastFocused map[string]string `json:"last_focused,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// LoadUserData loads user data from the user.data file in the config
// directory. Any failure yields fresh defaults rather than an error the
// caller would have to care about.
func LoadUserData() (*UserData, error) {
	userDataPath, err := getUserDataPath()
	if err != nil {
		return createDefaultUserData(), nil
	}

	data, err := os.ReadFile(userDataPath)
	if err != nil {
		return createDefaultUserData(), nil
	}

	var userData UserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return createDefaultUserData(), nil
	}
	if userData.LastFocused == nil {
		userData.LastFocused = make(map[string]string)
	}

	return &userData, nil
}

// SaveUserData writes user data back to disk.
func (ud *UserData) SaveUserData() error {
	userDataPath, err := getUserDataPath()
	if err != nil {
		return err
	}

	ud.UpdatedAt = time.Now()
	if ud.CreatedAt.IsZero() {
		ud.CreatedAt = ud.UpdatedAt
	}

	data, err := json.MarshalIndent(ud, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(userDataPath, data, 0644)
}

// SetMainBucket sets the main bucket and saves. LastUsed is cleared so the
// main bucket takes priority.
func (ud *UserData) SetMainBucket(bucket string) error {
	ud.MainBucket = bucket
	ud.LastUsed = ""
	return ud.SaveUserData()
}

// SetLastUsed records the most recently browsed bucket and saves.
func (ud *UserData) SetLastUsed(bucket string) error {
	ud.LastUsed = bucket
	return ud.SaveUserData()
}

// LastFocusedObject returns the remembered focus key for a bucket.
// Implements the navigation engine's focus store.
func (ud *UserData) LastFocusedObject(bucket string) (string, bool) {
	key, ok := ud.LastFocused[bucket]
	return key, ok && key != ""
}

// SetLastFocusedObject remembers the focus key for a bucket and saves.
func (ud *UserData) SetLastFocusedObject(bucket, key string) error {
	if ud.LastFocused == nil {
		ud.LastFocused = make(map[string]string)
	}
	ud.LastFocused[bucket] = key
	return ud.SaveUserData()
}

func createDefaultUserData() *UserData {
	now := time.Now()
	return &UserData{
		LastFocused: make(map[string]string),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// getUserDataPath returns the path to the user.data file, creating the
// config directory if needed.
func getUserDataPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".dgview")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "user.data"), nil
}

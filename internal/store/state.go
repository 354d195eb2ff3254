package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// state is the on-disk form of the last submitted questionnaire.
type state struct {
	Selection map[string]string `json:"selection"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// loadState reads the state from a JSON file. Returns nil if the file doesn't exist.
func loadState(filePath string) (*state, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// saveState writes the state to a JSON file, creating the directory if needed.
func saveState(filePath string, st *state) error {
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0o644)
}

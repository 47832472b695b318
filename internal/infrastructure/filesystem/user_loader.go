package filesystem

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"user-directory-bot/internal/domain/user"
)

// UserLoader handles loading seed users from files
type UserLoader struct{}

// NewUserLoader creates a new user loader
func NewUserLoader() *UserLoader {
	return &UserLoader{}
}

// UserData represents the file structure of seed user data
type UserData struct {
	Users []UserEntry `json:"users" yaml:"users"`
}

// UserEntry represents a single user entry in a seed file
type UserEntry struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// LoadFromFile loads users from a JSON or YAML file, chosen by extension.
// The returned users carry no id.
func (l *UserLoader) LoadFromFile(filename string) ([]user.User, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open user file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return l.Load(file, "yaml")
	default:
		return l.Load(file, "json")
	}
}

// Load decodes users from r in the given format ("json" or "yaml").
func (l *UserLoader) Load(r io.Reader, format string) ([]user.User, error) {
	var data UserData
	switch format {
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(&data); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to decode user YAML: %w", err)
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode user JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported user file format: %s", format)
	}

	users := make([]user.User, 0, len(data.Users))
	for _, entry := range data.Users {
		users = append(users, user.NewUser(entry.Name, entry.Email))
	}

	return users, nil
}

package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// rootMarkers identify the project directory when running from source.
var rootMarkers = []string{"wails.json", "go.mod"}

// FindProjectRoot walks up from the working directory until it finds a
// directory holding one of rootMarkers.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// LoadEnv loads .env.local and then .env from the project root. Variables
// already set in the process win, and .env.local wins over .env.
func LoadEnv() error {
	root, err := FindProjectRoot()
	if err != nil {
		return err
	}
	var files []string
	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return fs.ErrNotExist
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(fs.ErrInvalid, err)
	}
	return nil
}

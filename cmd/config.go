package cmd

import (
	"os"

	"github.com/joho/godotenv"
)

// Load environment overrides from the given .env files. Missing files are
// ignored and variables that are already set are left untouched.
func LoadEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return err
		}
	}
	return nil
}

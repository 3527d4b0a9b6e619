package confkit

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotenvOnce loads a .env file into the process environment. ENV_FILE
// names the file explicitly; otherwise .env files are read from the working
// directory up to the project root. NO_DOTENV=1 disables loading and
// DOTENV_OVERLOAD=1 lets the file override variables already set.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}
	for _, p := range dotenvCandidates() {
		if os.Getenv("DOTENV_OVERLOAD") == "1" {
			_ = godotenv.Overload(p)
		} else {
			_ = godotenv.Load(p)
		}
	}
}

func dotenvCandidates() []string {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		return []string{envFile}
	}
	dir, err := os.Getwd()
	if err != nil {
		return []string{".env"}
	}
	var out []string
	for i := 0; i < 8; i++ {
		if p := filepath.Join(dir, ".env"); fileExists(p) {
			out = append(out, p)
		}
		if isProjectRoot(dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return out
}

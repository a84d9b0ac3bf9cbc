package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Env carries defaults the host application can provision through the
// environment (or a .env file next to the working directory) instead of
// passing them on every invocation. Explicit flags always win.
type Env struct {
	APIKey      string
	APIURL      string
	ModelDir    string
	WhisperPath string
	FFmpegPath  string
}

// Load reads a .env file when one exists and then resolves the POLYGLOT_*
// variables. Variables already present in the environment are not
// overridden by the file.
func Load() Env {
	_ = godotenv.Load()
	return fromGetenv(os.Getenv)
}

func fromGetenv(get func(string) string) Env {
	return Env{
		APIKey:      get("POLYGLOT_API_KEY"),
		APIURL:      get("POLYGLOT_API_URL"),
		ModelDir:    get("POLYGLOT_MODEL_DIR"),
		WhisperPath: get("POLYGLOT_WHISPER_PATH"),
		FFmpegPath:  get("POLYGLOT_FFMPEG_PATH"),
	}
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultStopIDs covers ten popular bus stops in various Pittsburgh
// neighborhoods: Oakland, CMU, Squirrel Hill, Shadyside and East Liberty.
const defaultStopIDs = "7117,1177,7126,7096,2565,36,4407,1167,19383,3268"

type Config struct {
	LogLevel slog.Level
	HTTPAddr string

	APIBaseURL string
	APIKey     string
	Feed       string
	StopIDs    []string

	PollInterval time.Duration

	GTFSDir       string
	HistoryPath   string
	TimetablePath string
}

func Load() (*Config, error) {
	// optional .env for local runs; real deployments set the environment
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel: getLogLevelEnv("LOG_LEVEL", slog.LevelInfo),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		APIBaseURL: getEnv("TRUETIME_API_URL", "https://truetime.portauthority.org/bustime/api/v3/getpredictions"),
		Feed:       getEnv("TRUETIME_FEED", "Port Authority Bus"),
		StopIDs:    getCSVEnv("STOP_IDS", defaultStopIDs),

		PollInterval: getDurationEnv("POLL_INTERVAL", time.Minute),

		GTFSDir:       getEnv("GTFS_DIR", "GTFS"),
		HistoryPath:   getEnv("HISTORY_PATH", "history.txt"),
		TimetablePath: getEnv("TIMETABLE_PATH", "schedule.txt"),
	}

	key, err := loadAPIKey()
	if err != nil {
		return nil, err
	}
	cfg.APIKey = key

	return cfg, nil
}

// loadAPIKey takes the key from TRUETIME_API_KEY, or from the first line of
// the key file. Running without a key is not supported.
func loadAPIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("TRUETIME_API_KEY")); key != "" {
		return key, nil
	}

	path := getEnv("TRUETIME_KEY_FILE", "key.secret")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read API key file %s: %w", path, err)
	}
	key, _, _ := strings.Cut(string(data), "\n")
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("API key file %s is empty", path)
	}
	return key, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getLogLevelEnv(key string, defaultVal slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}

	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return defaultVal
	}
}

func getCSVEnv(key, defaultVal string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		v = defaultVal
	}

	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			result = append(result, t)
		}
	}
	return result
}

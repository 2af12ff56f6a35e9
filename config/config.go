package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppName string
	AppEnv  string
	AppPort int

	LogLevel string

	Scraper ScraperConfig

	// Postgres (optional; enabled only when DBHost + DBName are set).
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     int
	DBName     string

	// Local SQLite events store (optional; enabled only when SQLitePath is set).
	SQLitePath string

	// Redis seen-URL cache (optional; enabled only when RedisHost is set).
	RedisUser     string
	RedisPassword string
	RedisHost     string
	RedisPort     int
	RedisScheme   string

	RabbitMQ RabbitMQConfig
}

// ScraperConfig names the artifacts one scrape pass produces. The status
// command reads the same names, so the two sides stay in sync through config.
type ScraperConfig struct {
	Dir     string
	PIDFile string
	LogFile string

	AllEventsCSV string
	HitsCSV      string

	ScheduleURL string
	BaseURL     string

	// Keywords overrides the built-in superconducting-qubit vocabulary
	// when non-empty.
	Keywords []string

	TailLines       int
	CheckpointEvery int
	RequestTimeout  time.Duration
	RequestDelay    time.Duration
}

type RabbitMQConfig struct {
	URL             string
	Exchange        string
	Queue           string
	RoutingKey      string
	Prefetch        int
	DeclareTopology bool
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "summit-abstract-miner")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SCRAPER_DIR", ".")
	v.SetDefault("SCRAPER_PID_FILE", "scraper.pid")
	v.SetDefault("SCRAPER_LOG_FILE", "scraper.log")
	v.SetDefault("SCRAPER_ALL_EVENTS_CSV", "aps_summit_all_events.csv")
	v.SetDefault("SCRAPER_HITS_CSV", "aps_summit_superconducting_qubits.csv")
	v.SetDefault("SCRAPER_SCHEDULE_URL", "https://summit.aps.org/schedule/")
	v.SetDefault("SCRAPER_BASE_URL", "https://summit.aps.org")
	v.SetDefault("SCRAPER_KEYWORDS", "")
	v.SetDefault("SCRAPER_TAIL_LINES", 20)
	v.SetDefault("SCRAPER_CHECKPOINT_EVERY", 100)
	v.SetDefault("SCRAPER_REQUEST_TIMEOUT", "20s")
	v.SetDefault("SCRAPER_REQUEST_DELAY", "500ms")

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_SCHEME", "redis")

	v.SetDefault("RABBITMQ_EXCHANGE", "events")
	v.SetDefault("RABBITMQ_QUEUE", "scraper.url.requested.v1")
	v.SetDefault("RABBITMQ_ROUTING_KEY", "scraper.url.requested.v1")
	v.SetDefault("RABBITMQ_PREFETCH", 1)
	v.SetDefault("RABBITMQ_DECLARE_TOPOLOGY", true)

	return v
}

func NewConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppName: v.GetString("APP_NAME"),
		AppEnv:  v.GetString("APP_ENV"),
		AppPort: v.GetInt("APP_PORT"),

		LogLevel: v.GetString("LOG_LEVEL"),

		Scraper: ScraperConfig{
			Dir:     v.GetString("SCRAPER_DIR"),
			PIDFile: v.GetString("SCRAPER_PID_FILE"),
			LogFile: v.GetString("SCRAPER_LOG_FILE"),

			AllEventsCSV: v.GetString("SCRAPER_ALL_EVENTS_CSV"),
			HitsCSV:      v.GetString("SCRAPER_HITS_CSV"),

			ScheduleURL: v.GetString("SCRAPER_SCHEDULE_URL"),
			BaseURL:     v.GetString("SCRAPER_BASE_URL"),

			Keywords: splitList(v.GetString("SCRAPER_KEYWORDS")),

			TailLines:       v.GetInt("SCRAPER_TAIL_LINES"),
			CheckpointEvery: v.GetInt("SCRAPER_CHECKPOINT_EVERY"),
			RequestTimeout:  v.GetDuration("SCRAPER_REQUEST_TIMEOUT"),
			RequestDelay:    v.GetDuration("SCRAPER_REQUEST_DELAY"),
		},

		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetInt("DB_PORT"),
		DBName:     v.GetString("DB_NAME"),

		SQLitePath: v.GetString("SQLITE_PATH"),

		RedisUser:     v.GetString("REDIS_USER"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetInt("REDIS_PORT"),
		RedisScheme:   v.GetString("REDIS_SCHEME"),

		RabbitMQ: RabbitMQConfig{
			URL:             v.GetString("RABBITMQ_URL"),
			Exchange:        v.GetString("RABBITMQ_EXCHANGE"),
			Queue:           v.GetString("RABBITMQ_QUEUE"),
			RoutingKey:      v.GetString("RABBITMQ_ROUTING_KEY"),
			Prefetch:        v.GetInt("RABBITMQ_PREFETCH"),
			DeclareTopology: v.GetBool("RABBITMQ_DECLARE_TOPOLOGY"),
		},
	}

	if cfg.AppPort <= 0 || cfg.AppPort > 65535 {
		return Config{}, fmt.Errorf("invalid APP_PORT %d", cfg.AppPort)
	}
	if cfg.DBPort <= 0 || cfg.DBPort > 65535 {
		return Config{}, fmt.Errorf("invalid DB_PORT %d", cfg.DBPort)
	}
	if cfg.RedisPort <= 0 || cfg.RedisPort > 65535 {
		return Config{}, fmt.Errorf("invalid REDIS_PORT %d", cfg.RedisPort)
	}
	if cfg.Scraper.TailLines <= 0 {
		return Config{}, fmt.Errorf("invalid SCRAPER_TAIL_LINES %d", cfg.Scraper.TailLines)
	}
	if cfg.Scraper.CheckpointEvery <= 0 {
		return Config{}, fmt.Errorf("invalid SCRAPER_CHECKPOINT_EVERY %d", cfg.Scraper.CheckpointEvery)
	}

	return cfg, nil
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

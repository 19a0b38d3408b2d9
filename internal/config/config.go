package config

import (
	"log"
	"os"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "STOCKRECON_CONFIG"
	databaseDSNEnv     = "DATABASE_DSN"
	mongoURIEnv        = "MONGO_URI"
	feedURLEnv         = "PLATFORM_FEED_URL"
	accessTokenEnv     = "PLATFORM_ACCESS_TOKEN"
	mappingPathEnv     = "MAPPING_FILE"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	portEnv            = "PORT"
	logLevelEnv        = "LOG_LEVEL"
	storageDriverEnv   = "STORAGE_DRIVER"
	defaultUserAgent   = "StockReconciler/1.0"
	defaultFeedTimeout = 20 * time.Second
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Server        ServerConfig       `yaml:"server"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Scraper       ScraperConfig      `yaml:"scraper"`
	Sites         []SiteConfig       `yaml:"sites"`
	Platform      PlatformConfig     `yaml:"platform"`
	Mapping       MappingConfig      `yaml:"mapping"`
	Reconcile     ReconcileConfig    `yaml:"reconcile"`
	Storage       StorageConfig      `yaml:"storage"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	Environment    string   `yaml:"environment"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// SchedulerConfig defines when the scrape job runs inside `serve`.
type SchedulerConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Interval       time.Duration `yaml:"interval"`
	SkipInitialRun bool          `yaml:"skipInitialRun"`
}

// ScraperConfig tunes storefront fetching. Zero values mean "no limit".
type ScraperConfig struct {
	UserAgent         string        `yaml:"userAgent"`
	RequestTimeout    time.Duration `yaml:"requestTimeout"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Burst             int           `yaml:"burst"`
	MaxConcurrency    int           `yaml:"maxConcurrency"`
}

// SiteConfig describes a storefront with its scanner strategy and collection pages.
type SiteConfig struct {
	Name        string         `yaml:"name"`
	Scanner     string         `yaml:"scanner"`
	Collections []string       `yaml:"collections"`
	Selectors   SelectorConfig `yaml:"selectors"`
}

// SelectorConfig holds the CSS selectors used on listing and detail pages.
type SelectorConfig struct {
	Heading          string `yaml:"heading"`
	Listing          string `yaml:"listing"`
	TitleLink        string `yaml:"titleLink"`
	CurrentPrice     string `yaml:"currentPrice"`
	Availability     string `yaml:"availability"`
	OutOfStockMarker string `yaml:"outOfStockMarker"`
}

// PlatformConfig points at the platform catalog feed.
type PlatformConfig struct {
	FeedURL     string        `yaml:"feedUrl"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"userAgent"`
	AccessToken string        `yaml:"accessToken"`
}

// MappingConfig locates the static name → platform id mapping file.
type MappingConfig struct {
	Path string `yaml:"path"`
}

// ReconcileConfig tunes the comparison engine.
type ReconcileConfig struct {
	KnownBrands     []string `yaml:"knownBrands"`
	SuggestMinScore float64  `yaml:"suggestMinScore"`
}

// StorageConfig selects the snapshot store.
type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	Postgres PostgresConfig `yaml:"postgres"`
	Mongo    MongoConfig    `yaml:"mongo"`
}

// PostgresConfig describes Postgres connection details.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// MongoConfig describes the Mongo deployment holding snapshots.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An empty path falls back to $STOCKRECON_CONFIG.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else if err := mergo.Merge(&fileCfg, cfg); err != nil {
				log.Printf("config: cannot merge %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.fillSiteDefaults()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.Postgres.DSN = v
	}

	if v := os.Getenv(mongoURIEnv); v != "" {
		c.Storage.Mongo.URI = v
	}

	if v := os.Getenv(storageDriverEnv); v != "" {
		c.Storage.Driver = v
	}

	if v := os.Getenv(feedURLEnv); v != "" {
		c.Platform.FeedURL = v
	}

	if v := os.Getenv(accessTokenEnv); v != "" {
		c.Platform.AccessToken = v
	}

	if v := os.Getenv(mappingPathEnv); v != "" {
		c.Mapping.Path = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(portEnv); v != "" {
		c.Server.Port = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

// fillSiteDefaults gives every site the storefront scanner and default selectors
// for whatever it leaves blank.
func (c *Config) fillSiteDefaults() {
	if len(c.Sites) == 0 {
		c.Sites = defaultConfig().Sites
	}
	for i := range c.Sites {
		if c.Sites[i].Scanner == "" {
			c.Sites[i].Scanner = "storefront"
		}
		if err := mergo.Merge(&c.Sites[i].Selectors, DefaultSelectors()); err != nil {
			log.Printf("config: site %s selectors: %v", c.Sites[i].Name, err)
		}
	}
}

// DefaultSelectors matches the markup of the reference storefront.
func DefaultSelectors() SelectorConfig {
	return SelectorConfig{
		Heading:          ".section-title h2",
		Listing:          ".grid-items",
		TitleLink:        ".caption h3 a",
		CurrentPrice:     ".pro-price .new-price",
		Availability:     ".pro-available .pro-instock",
		OutOfStockMarker: "Out of stock",
	}
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Port:           "4001",
			Environment:    "development",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Scheduler: SchedulerConfig{Interval: 24 * time.Hour},
		Scraper:   ScraperConfig{UserAgent: defaultUserAgent},
		Sites: []SiteConfig{
			{
				Name:    "tunisiamarka",
				Scanner: "storefront",
				Collections: []string{
					"https://tunisiamarka.com.tn/brands-18-Anua.html",
					"https://tunisiamarka.com.tn/brands-6-Cosrx-1.html",
					"https://tunisiamarka.com.tn/brands-6-Cosrx-2.html",
					"https://tunisiamarka.com.tn/brands-16-SKINBrand-1.html",
					"https://tunisiamarka.com.tn/brands-16-SKINBrand-2.html",
					"https://tunisiamarka.com.tn/brands-16-SKINBrand-3.html",
					"https://tunisiamarka.com.tn/brands-3-SomeByMi.html",
					"https://tunisiamarka.com.tn/brands-3-SomeByMi-2.html",
					"https://tunisiamarka.com.tn/brands-17-BeautyofJoseon-.html",
					"https://tunisiamarka.com.tn/brands-17-BeautyofJoseon-2.html",
					"https://tunisiamarka.com.tn/brands-20-AXIS-Y.html",
					"https://tunisiamarka.com.tn/brands-21-DrAlthea.html",
					"https://tunisiamarka.com.tn/brands-19-MEDICUBE.html",
					"https://tunisiamarka.com.tn/brands-19-MEDICUBE-2.html",
					"https://tunisiamarka.com.tn/brands-19-MEDICUBE-3.html",
					"https://tunisiamarka.com.tn/brands-19-MEDICUBE-4.html",
					"https://tunisiamarka.com.tn/brands-19-MEDICUBE-5.html",
					"https://tunisiamarka.com.tn/brands-19-MEDICUBE-6.html",
				},
				Selectors: DefaultSelectors(),
			},
		},
		Platform: PlatformConfig{
			FeedURL:   "https://platform.example.com/products.json",
			Timeout:   defaultFeedTimeout,
			UserAgent: defaultUserAgent,
		},
		Mapping: MappingConfig{Path: "mapping.json"},
		Reconcile: ReconcileConfig{
			KnownBrands: []string{
				"Anua",
				"Axis-Y",
				"Beauty of Joseon",
				"Cosrx",
				"Dr. Althea",
				"Dr.Althea",
				"Medicube",
				"SKIN1004",
				"Some By Mi",
			},
			SuggestMinScore: 0.85,
		},
		Storage: StorageConfig{
			Driver: "memory",
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "stockrecon",
				Collection: "snapshots",
			},
		},
	}
}

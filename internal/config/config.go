package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

// Catalog backends.
const (
	CatalogShopify   = "shopify"
	CatalogFile      = "file"
	CatalogFirestore = "firestore"
	CatalogDemo      = "demo"
)

type Config struct {
	Mode Mode

	Port string

	// StoreDomain is the storefront host used in product and checkout URLs,
	// e.g. "my-shop.myshopify.com".
	StoreDomain string

	CatalogBackend     string // "shopify", "file", "firestore" or "demo"
	CatalogFile        string
	CatalogCacheTTL    time.Duration
	ShopifyAccessToken string // empty = public storefront endpoint
	ShopifyAPIVersion  string

	GCPProjectID string
	GCPLocation  string
	ModelName    string
	GeminiAPIKey string // set = Gemini API instead of Vertex
	UseMockLLM   bool   // true = use mock even on GCP
	LLMPerMinute int    // 0 = unlimited

	SessionTTL        time.Duration
	MaxHistory        int
	MaxKnownProducts  int
	SearchResultLimit int

	LogLevel string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// Load reads a .env file if present, then all env vars, and builds the config.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	modeStr := getEnv("SHOPCHAT_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	defaultCatalog := CatalogShopify
	if mode == ModeLocal {
		defaultCatalog = CatalogDemo
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("SHOPCHAT_PORT", getEnv("PORT", "8080")),

		StoreDomain: getEnv("SHOPCHAT_STORE_DOMAIN", "demo-store.myshopify.com"),

		CatalogBackend:     strings.ToLower(getEnv("SHOPCHAT_CATALOG_BACKEND", defaultCatalog)),
		CatalogFile:        getEnv("SHOPCHAT_CATALOG_FILE", "catalog.yaml"),
		ShopifyAccessToken: getEnv("SHOPCHAT_SHOPIFY_ACCESS_TOKEN", ""),
		ShopifyAPIVersion:  getEnv("SHOPCHAT_SHOPIFY_API_VERSION", "2024-10"),

		GCPProjectID: getEnv("SHOPCHAT_GCP_PROJECT", ""),
		GCPLocation:  getEnv("SHOPCHAT_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("SHOPCHAT_MODEL_NAME", "gemini-2.5-flash-lite"),
		GeminiAPIKey: getEnv("SHOPCHAT_GEMINI_API_KEY", ""),
		UseMockLLM:   getBoolEnv("SHOPCHAT_USE_MOCK_LLM", mode == ModeLocal),

		LogLevel: getEnv("SHOPCHAT_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.CatalogCacheTTL, err = getDurationEnv("SHOPCHAT_CATALOG_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDurationEnv("SHOPCHAT_SESSION_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.LLMPerMinute, err = getIntEnv("SHOPCHAT_LLM_PER_MINUTE", 30); err != nil {
		return nil, err
	}
	if cfg.MaxHistory, err = getIntEnv("SHOPCHAT_MAX_HISTORY", 10); err != nil {
		return nil, err
	}
	if cfg.MaxKnownProducts, err = getIntEnv("SHOPCHAT_MAX_KNOWN_PRODUCTS", 20); err != nil {
		return nil, err
	}
	if cfg.SearchResultLimit, err = getIntEnv("SHOPCHAT_SEARCH_RESULT_LIMIT", 5); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	var errs []error

	if c.StoreDomain == "" {
		errs = append(errs, errors.New("SHOPCHAT_STORE_DOMAIN must be set"))
	}
	if c.MaxHistory <= 0 || c.MaxKnownProducts <= 0 || c.SearchResultLimit <= 0 {
		errs = append(errs, errors.New("history, known product and search limits must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SHOPCHAT_SESSION_TTL must be positive"))
	}

	switch c.CatalogBackend {
	case CatalogShopify, CatalogFile, CatalogDemo:
	case CatalogFirestore:
		if c.GCPProjectID == "" {
			errs = append(errs, errors.New("SHOPCHAT_GCP_PROJECT is required for the firestore catalog"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown catalog backend %q", c.CatalogBackend))
	}

	// Minimal validation in GCP mode
	if c.Mode == ModeGCP && !c.UseMockLLM && c.GCPProjectID == "" && c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("SHOPCHAT_GCP_PROJECT or SHOPCHAT_GEMINI_API_KEY must be set in gcp mode"))
	}

	return errors.Join(errs...)
}

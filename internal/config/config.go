// Package config provides configuration for the registration server.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Session store
	SessionStore string // "memory" or "sqlite"
	DatabaseURL  string
	SessionTTL   time.Duration // 0 disables expiry sweeping
	SweepEvery   time.Duration

	// IPFS pinning
	PinataAPIURL string
	PinataJWT    string
	IPFSGateway  string
	IPFSTimeout  time.Duration

	// Story chain gateway
	StoryGatewayURL    string
	StoryAPIKey        string
	SpgNftContract     string
	ExplorerBaseURL    string
	DefaultMintingFee  int
	CommercialRevShare int
	ChainTimeout       time.Duration

	// Yakoa protection
	YakoaAPIURL  string
	YakoaAPIKey  string
	YakoaTimeout time.Duration
	YakoaBackoff time.Duration // initial conflict-retry backoff
}

// Load loads configuration from a .env file (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:           getEnvInt("PORT", 8083),
		SessionStore:       getEnv("SESSION_STORE", "memory"),
		DatabaseURL:        getEnv("DATABASE_URL", "file:registrar.db?cache=shared&mode=rwc"),
		SessionTTL:         time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		SweepEvery:         time.Duration(getEnvInt("SESSION_SWEEP_MINUTES", 10)) * time.Minute,
		PinataAPIURL:       getEnv("PINATA_API_URL", "https://api.pinata.cloud"),
		PinataJWT:          getEnv("PINATA_JWT", ""),
		IPFSGateway:        getEnv("IPFS_GATEWAY", "https://ipfs.io/ipfs/"),
		IPFSTimeout:        time.Duration(getEnvInt("IPFS_TIMEOUT_MS", 60000)) * time.Millisecond,
		StoryGatewayURL:    getEnv("STORY_GATEWAY_URL", "http://localhost:8090"),
		StoryAPIKey:        getEnv("STORY_API_KEY", ""),
		SpgNftContract:     getEnv("SPG_NFT_CONTRACT", "0xc32A8a0FF3beDDDa58393d022aF433e78739FAbc"),
		ExplorerBaseURL:    getEnv("EXPLORER_BASE_URL", "https://aeneid.explorer.story.foundation"),
		DefaultMintingFee:  getEnvInt("DEFAULT_MINTING_FEE", 1),
		CommercialRevShare: getEnvInt("COMMERCIAL_REV_SHARE", 5),
		ChainTimeout:       time.Duration(getEnvInt("CHAIN_TIMEOUT_MS", 120000)) * time.Millisecond,
		YakoaAPIURL:        getEnv("YAKOA_API_URL", "https://docs-demo.ip-api-sandbox.yakoa.io/story/docs-demo"),
		YakoaAPIKey:        getEnv("YAKOA_API_KEY", ""),
		YakoaTimeout:       time.Duration(getEnvInt("YAKOA_TIMEOUT_MS", 30000)) * time.Millisecond,
		YakoaBackoff:       time.Duration(getEnvInt("YAKOA_BACKOFF_MS", 2000)) * time.Millisecond,
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	MinStake             uint64
	VotingPeriod         time.Duration
	MajorityThresholdPct uint64
	RewardPercent        uint64
	SlashPercent         uint64
	MaxVotersPerRound    uint64
	CustodyAccount       string
	TreasuryAccount      string

	AdminID          string
	ValueLedgerID    string
	ClaimRegistryID  string
	ValueLedgerURL   string
	ClaimRegistryURL string

	EnableRoundExpirer    bool
	EnableDisputeConsumer bool

	RateLimitPerMinute int
	RateLimitBurst     int
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "verification-engine"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		MinStake:             envUint64("MIN_STAKE", 0),
		VotingPeriod:         envDuration("VOTING_PERIOD", 0),
		MajorityThresholdPct: envUint64("MAJORITY_THRESHOLD_PCT", 0),
		RewardPercent:        envUint64("REWARD_PERCENT", 0),
		SlashPercent:         envUint64("SLASH_PERCENT", 0),
		MaxVotersPerRound:    envUint64("MAX_VOTERS_PER_ROUND", 0),
		CustodyAccount:       os.Getenv("CUSTODY_ACCOUNT"),
		TreasuryAccount:      os.Getenv("TREASURY_ACCOUNT"),

		AdminID:          os.Getenv("ADMIN_ID"),
		ValueLedgerID:    os.Getenv("VALUE_LEDGER_ID"),
		ClaimRegistryID:  os.Getenv("CLAIM_REGISTRY_ID"),
		ValueLedgerURL:   os.Getenv("VALUE_LEDGER_URL"),
		ClaimRegistryURL: os.Getenv("CLAIM_REGISTRY_URL"),

		EnableRoundExpirer:    envBool("ENABLE_ROUND_EXPIRER", true),
		EnableDisputeConsumer: envBool("ENABLE_DISPUTE_CONSUMER", true),

		RateLimitPerMinute: int(envUint64("RATE_LIMIT_PER_MINUTE", 120)),
		RateLimitBurst:     int(envUint64("RATE_LIMIT_BURST", 30)),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envUint64(name string, fallback uint64) uint64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

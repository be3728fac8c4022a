package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Server struct {
	Addr string
}

type Queue struct {
	// Mode selects the transport: "memory" (in-process workers + journal)
	// or "kafka".
	Mode        string
	Brokers     []string
	Topic       string
	GroupID     string
	JournalPath string
	Workers     int
	Buffer      int
}

type Quotes struct {
	// Sources lists the liquidity source names to stand up. Each mock
	// source derives its seed from its position so runs are reproducible
	// under a fixed SOURCE list.
	Sources []string
	// PerSourceTimeout bounds one source call; a timed-out source counts
	// as a normal per-source failure.
	PerSourceTimeout time.Duration
	BasePrice        float64
}

type Config struct {
	Server Server
	Queue  Queue
	Quotes Quotes
}

func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Queue: Queue{
			Mode:        "memory",
			Brokers:     []string{"localhost:9092"},
			Topic:       "swap-orders",
			GroupID:     "swaproute",
			JournalPath: "data/journal",
			Workers:     8,
			Buffer:      256,
		},
		Quotes: Quotes{
			Sources:          []string{"meteora", "orca", "raydium"},
			PerSourceTimeout: 2 * time.Second,
			BasePrice:        150.0, // mock SOL/USDC-ish anchor
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if mode := os.Getenv("QUEUE_MODE"); mode != "" {
		cfg.Queue.Mode = mode
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Queue.Brokers = strings.Split(brokers, ",")
	}
	if topic := os.Getenv("KAFKA_TOPIC"); topic != "" {
		cfg.Queue.Topic = topic
	}
	if group := os.Getenv("KAFKA_GROUP_ID"); group != "" {
		cfg.Queue.GroupID = group
	}
	if path := os.Getenv("JOURNAL_PATH"); path != "" {
		cfg.Queue.JournalPath = path
	}
	if workers := os.Getenv("QUEUE_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			cfg.Queue.Workers = n
		}
	}
	if sources := os.Getenv("SOURCES"); sources != "" {
		cfg.Quotes.Sources = strings.Split(sources, ",")
	}
	if ms := os.Getenv("QUOTE_TIMEOUT_MS"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil && n > 0 {
			cfg.Quotes.PerSourceTimeout = time.Duration(n) * time.Millisecond
		}
	}
	if price := os.Getenv("BASE_PRICE"); price != "" {
		if p, err := strconv.ParseFloat(price, 64); err == nil && p > 0 {
			cfg.Quotes.BasePrice = p
		}
	}

	return cfg
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type StoreCfg struct {
	Driver    string // memory | redis
	RedisAddr string
	TTL       time.Duration
	CacheSize int
	OpTimeout time.Duration
}

type BridgeCfg struct {
	Driver  string // log | kafka
	Brokers []string
	Topic   string
	Queue   int
}

type LocationCfg struct {
	Enabled  bool
	Brokers  []string
	Topic    string
	GroupID  string
	CellRes  int
	Capacity int
}

type Config struct {
	Addr               string
	LogLevel           string
	LogConsole         bool
	LogSampleN         int
	DefaultDurationMs  int
	DefaultAnimation   string
	DefaultViewport    [2]float64
	Store              StoreCfg
	Bridge             BridgeCfg
	Location           LocationCfg
	MetricsEnabled     bool
	MetricsAddr        string
	MetricsPath        string
	MaxIntentBodyBytes int64
}

func FromEnv() Config {
	brokers := splitList(getenv("KAFKA_BROKERS", "localhost:9092"))

	res := getint("LOCATION_H3_RES", 9)
	if res < 0 {
		res = 0
	}
	if res > 15 {
		res = 15
	}

	return Config{
		Addr:              getenv("ADDR", ":8090"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogConsole:        getbool("LOG_CONSOLE", false),
		LogSampleN:        getint("LOG_SAMPLE_N", 0),
		DefaultDurationMs: getint("CAMERA_DEFAULT_DURATION_MS", 2000),
		DefaultAnimation:  getenv("CAMERA_DEFAULT_ANIMATION", "easeTo"),
		DefaultViewport: [2]float64{
			getfloat("VIEWPORT_WIDTH", 1080),
			getfloat("VIEWPORT_HEIGHT", 1920),
		},
		Store: StoreCfg{
			Driver:    strings.ToLower(getenv("STORE_DRIVER", "memory")),
			RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
			TTL:       getduration("SESSION_TTL", 24*time.Hour),
			CacheSize: getint("SESSION_CACHE_SIZE", 10000),
			OpTimeout: getduration("STORE_OP_TIMEOUT", 250*time.Millisecond),
		},
		Bridge: BridgeCfg{
			Driver:  strings.ToLower(getenv("BRIDGE_DRIVER", "log")),
			Brokers: brokers,
			Topic:   getenv("KAFKA_COMMAND_TOPIC", "camera-commands"),
			Queue:   getint("BRIDGE_QUEUE", 1024),
		},
		Location: LocationCfg{
			Enabled:  getbool("LOCATION_ENABLED", false),
			Brokers:  brokers,
			Topic:    getenv("KAFKA_LOCATION_TOPIC", "device-locations"),
			GroupID:  getenv("KAFKA_GROUP_ID", "camera-location"),
			CellRes:  res,
			Capacity: getint("LOCATION_CAPACITY", 10000),
		},
		MetricsEnabled:     getbool("METRICS_ENABLED", true),
		MetricsAddr:        getenv("METRICS_ADDR", ""),
		MetricsPath:        getenv("METRICS_PATH", "/metrics"),
		MaxIntentBodyBytes: int64(getint("MAX_INTENT_BODY_BYTES", 1<<20)),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if x := strings.TrimSpace(p); x != "" {
			out = append(out, x)
		}
	}
	return out
}

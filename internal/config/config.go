package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBPath      string        // SQLite database file
	Timeout     time.Duration // per-probe timeout
	Concurrency int           // max probes in flight
	Window      time.Duration // report/aggregation window
	Interval    time.Duration // cycle period in serve mode
	Addr        string        // status API bind address
	LogDir      string        // logs directory
	TargetsFile string        // YAML collections file; empty means built-in list
}

func FromEnv() Config {
	addr := os.Getenv("MONITOR_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	db := os.Getenv("MONITOR_DB")
	if db == "" {
		db = "collections_monitor.db"
	}

	timeout := 10 * time.Second
	if v := os.Getenv("MONITOR_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}

	concurrency := 5
	if v := os.Getenv("MONITOR_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			concurrency = n
		}
	}

	window := 24 * time.Hour
	if v := os.Getenv("MONITOR_WINDOW_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			window = time.Duration(n) * time.Hour
		}
	}

	interval := 5 * time.Minute
	if v := os.Getenv("MONITOR_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}

	return Config{
		DBPath:      db,
		Timeout:     timeout,
		Concurrency: concurrency,
		Window:      window,
		Interval:    interval,
		Addr:        addr,
		LogDir:      logDir,
		TargetsFile: os.Getenv("MONITOR_TARGETS"),
	}
}

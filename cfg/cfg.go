// Package cfg
package cfg

import (
	"os"
	"strconv"
	"time"
)

const (
	ModeDev        = "dev"
	ModeProduction = "prod"
)

type ServiceConfig struct {
	ServerMode string
	Port       string

	LogLevel  string
	SentryDSN string

	DefaultAPITimeout time.Duration

	CacheEngine      string
	CacheURL         string
	CacheDB          int
	CachePassword    string
	CacheIsFlush     bool
	CacheExpiredTime time.Duration

	StorageDriver  string
	StorageURI     string
	StorageDB      string
	StorageMinConn int
	StorageMaxConn int
	StorageIsFlush bool

	// LedgerBlockTime is the cadence the in-process ledger advances its
	// height at; the sync layer refreshes time-derived auction fields on
	// every tick.
	LedgerBlockTime time.Duration
	// AuctionDuration is the fixed endTime - startTime the ledger
	// applies to every new auction.
	AuctionDuration time.Duration

	ListenerInterval time.Duration
	BackfillInterval time.Duration
}

func New() (ServiceConfig, error) {
	apiDefaultTimeoutStr := os.Getenv("DEFAULT_API_TIMEOUT")
	apiDefaultTimeout, err := strconv.Atoi(apiDefaultTimeoutStr)
	if err != nil {
		apiDefaultTimeout = 2
	}

	cacheExpiredTimeStr := os.Getenv("CACHE_EXPIRED_TIME")
	cacheExpiredTime, err := strconv.Atoi(cacheExpiredTimeStr)
	if err != nil {
		cacheExpiredTime = 12
	}

	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		cacheDB = 0
	}

	cacheIsFlushStr := os.Getenv("CACHE_IS_FLUSH")
	cacheIsFlush, err := strconv.ParseBool(cacheIsFlushStr)
	if err != nil {
		cacheIsFlush = false
	}

	blockTimeStr := os.Getenv("LEDGER_BLOCK_TIME")
	blockTime, err := time.ParseDuration(blockTimeStr)
	if err != nil {
		blockTime = 1 * time.Second
	}

	auctionDurationStr := os.Getenv("AUCTION_DURATION")
	auctionDuration, err := time.ParseDuration(auctionDurationStr)
	if err != nil {
		auctionDuration = 24 * time.Hour
	}

	listenerIntervalStr := os.Getenv("LISTENER_INTERVAL")
	listenerInterval, err := time.ParseDuration(listenerIntervalStr)
	if err != nil {
		listenerInterval = 1 * time.Second
	}
	backfillIntervalStr := os.Getenv("BACKFILL_INTERVAL")
	backfillInterval, err := time.ParseDuration(backfillIntervalStr)
	if err != nil {
		backfillInterval = 2 * time.Second
	}

	storageMinConnStr := os.Getenv("STORAGE_MIN_CONN")
	storageMinConn, err := strconv.Atoi(storageMinConnStr)
	if err != nil {
		storageMinConn = 8
	}

	storageMaxConnStr := os.Getenv("STORAGE_MAX_CONN")
	storageMaxConn, err := strconv.Atoi(storageMaxConnStr)
	if err != nil {
		storageMaxConn = 32
	}

	storageIsFlushStr := os.Getenv("STORAGE_IS_FLUSH")
	storageIsFlush, err := strconv.ParseBool(storageIsFlushStr)
	if err != nil {
		storageIsFlush = false
	}

	cfg := ServiceConfig{
		ServerMode: os.Getenv("SERVER_MODE"),
		Port:       os.Getenv("PORT"),
		LogLevel:   os.Getenv("LOG_LEVEL"),
		SentryDSN:  os.Getenv("SENTRY_DSN"),

		DefaultAPITimeout: time.Duration(apiDefaultTimeout) * time.Second,

		CacheEngine:      os.Getenv("CACHE_ENGINE"),
		CacheURL:         os.Getenv("CACHE_URI"),
		CacheDB:          cacheDB,
		CachePassword:    os.Getenv("CACHE_PASSWORD"),
		CacheIsFlush:     cacheIsFlush,
		CacheExpiredTime: time.Duration(cacheExpiredTime) * time.Hour,

		StorageDriver:  os.Getenv("STORAGE_DRIVER"),
		StorageURI:     os.Getenv("STORAGE_URI"),
		StorageDB:      os.Getenv("STORAGE_DB"),
		StorageMinConn: storageMinConn,
		StorageMaxConn: storageMaxConn,
		StorageIsFlush: storageIsFlush,

		LedgerBlockTime: blockTime,
		AuctionDuration: auctionDuration,

		ListenerInterval: listenerInterval,
		BackfillInterval: backfillInterval,
	}

	return cfg, nil
}

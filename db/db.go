// Package db
package db

import (
	"errors"

	"go.uber.org/zap"
)

type Adapter string

const (
	MGO Adapter = "mgo"
)

type Config struct {
	DbAdapter Adapter
	DbName    string
	URL       string
	MinConn   int
	MaxConn   int
	FlushDB   bool

	Logger *zap.Logger
}

// Client is the sync layer's read-model store. Everything in here is a
// derived copy of ledger state; upserts are keyed so replaying the same
// range twice cannot duplicate anything.
type Client interface {
	ITokens
	IAuctions
	IBids
	IBalances
	ICheckpoints
}

func NewClient(cfg Config) (Client, error) {
	switch cfg.DbAdapter {
	case MGO:
		return newMongoDB(cfg)
	default:
		return nil, errors.New("invalid db config")
	}
}

// Package db
package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bxcodec/faker/v3"

	"github.com/tokerhq/toker-backend/types"
)

var testMongoURI = "mongodb://127.0.0.1:27017"

func SetupTestMGO() (Client, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	mgo, err := newMongoDB(Config{
		DbAdapter: MGO,
		DbName:    "toker-test",
		URL:       testMongoURI,
		MinConn:   1,
		MaxConn:   4,
		FlushDB:   true,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	if err := mgo.ping(context.Background()); err != nil {
		return nil, err
	}
	return mgo, nil
}

func fakeToken() *types.TokenRecord {
	suffix := faker.UUIDDigit()[:8]
	return &types.TokenRecord{
		Address:      "0x" + faker.UUIDDigit()[:20],
		Name:         fmt.Sprintf("%s-%s", faker.Word(), suffix),
		Symbol:       suffix,
		URL:          faker.URL(),
		Owner:        "0x" + faker.UUIDDigit()[:20],
		CappedSupply: 1000,
	}
}

func fakeAuction(id uint64, tokenAddr string) *types.AuctionRecord {
	return &types.AuctionRecord{
		ID:              id,
		Address:         "0x" + faker.UUIDDigit()[:20],
		TokenAddress:    tokenAddr,
		Owner:           "0x" + faker.UUIDDigit()[:20],
		StartTime:       1_600_000_000,
		EndTime:         1_600_086_400,
		StartPrice:      1000,
		ReservedPrice:   100,
		TotalSupply:     100,
		RemainingSupply: 100,
	}
}

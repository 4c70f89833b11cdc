// Package db
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tokerhq/toker-backend/types"
)

type IBalances interface {
	UpsertBalance(ctx context.Context, balance *types.Balance) error
	Balance(ctx context.Context, address, tokenAddress string) (*types.Balance, error)
	BalancesByAddress(ctx context.Context, address string) ([]*types.Balance, error)
}

func (m *mongoDB) UpsertBalance(ctx context.Context, balance *types.Balance) error {
	crit := bson.M{"address": balance.Address, "tokenAddress": balance.TokenAddress}
	if _, err := m.wrapper.C(cBalances).Upsert(crit, balance); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) Balance(ctx context.Context, address, tokenAddress string) (*types.Balance, error) {
	var balance types.Balance
	crit := bson.M{"address": address, "tokenAddress": tokenAddress}
	if err := m.wrapper.C(cBalances).FindOne(crit).Decode(&balance); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Unknown holder simply has a zero position
			return &types.Balance{Address: address, TokenAddress: tokenAddress}, nil
		}
		return nil, err
	}
	return &balance, nil
}

func (m *mongoDB) BalancesByAddress(ctx context.Context, address string) ([]*types.Balance, error) {
	cursor, err := m.wrapper.C(cBalances).Find(bson.M{"address": address})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var balances []*types.Balance
	for cursor.Next(ctx) {
		balance := &types.Balance{}
		if err := cursor.Decode(balance); err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}
	return balances, nil
}

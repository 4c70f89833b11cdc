// Package db
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tokerhq/toker-backend/types"
)

type ITokens interface {
	UpsertToken(ctx context.Context, token *types.TokenRecord) error
	TokenByAddress(ctx context.Context, address string) (*types.TokenRecord, error)
	TokenBySymbol(ctx context.Context, symbol string) (*types.TokenRecord, error)
	Tokens(ctx context.Context, filter *types.TokensFilter) ([]*types.TokenRecord, uint64, error)
	TokensCount(ctx context.Context) (uint64, error)
}

// UpsertToken is keyed by address so replays merge instead of
// duplicating.
func (m *mongoDB) UpsertToken(ctx context.Context, token *types.TokenRecord) error {
	if _, err := m.wrapper.C(cTokens).Upsert(bson.M{"address": token.Address}, token); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) TokenByAddress(ctx context.Context, address string) (*types.TokenRecord, error) {
	var token types.TokenRecord
	if err := m.wrapper.C(cTokens).FindOne(bson.M{"address": address}).Decode(&token); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (m *mongoDB) TokenBySymbol(ctx context.Context, symbol string) (*types.TokenRecord, error) {
	var token types.TokenRecord
	if err := m.wrapper.C(cTokens).FindOne(bson.M{"symbol": symbol}).Decode(&token); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (m *mongoDB) Tokens(ctx context.Context, filter *types.TokensFilter) ([]*types.TokenRecord, uint64, error) {
	var (
		crit = bson.M{}
		opts []*options.FindOptions
	)
	if filter != nil {
		if filter.Owner != "" {
			crit["owner"] = filter.Owner
		}
		if filter.Symbol != "" {
			crit["symbol"] = filter.Symbol
		}
		if filter.Pagination != nil {
			filter.Pagination.Sanitize()
			opts = append(opts,
				options.Find().SetSkip(int64(filter.Pagination.Skip)),
				options.Find().SetLimit(int64(filter.Pagination.Limit)))
		}
	}
	opts = append(opts, options.Find().SetSort(bson.M{"createdAtBlock": 1}))

	cursor, err := m.wrapper.C(cTokens).Find(crit, opts...)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var tokens []*types.TokenRecord
	for cursor.Next(ctx) {
		token := &types.TokenRecord{}
		if err := cursor.Decode(token); err != nil {
			return nil, 0, err
		}
		tokens = append(tokens, token)
	}

	total, err := m.wrapper.C(cTokens).Count(crit)
	if err != nil {
		return nil, 0, err
	}
	return tokens, uint64(total), nil
}

func (m *mongoDB) TokensCount(ctx context.Context) (uint64, error) {
	total, err := m.wrapper.C(cTokens).Count(bson.M{})
	if err != nil {
		return 0, err
	}
	return uint64(total), nil
}

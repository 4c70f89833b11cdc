// Package cache
package cache

import (
	"context"
	"encoding/json"

	"github.com/tokerhq/toker-backend/types"
)

const (
	KeyTokenBySymbol  = "#token#symbol#"
	KeyTokenByAddress = "#token#address#"
)

type IToken interface {
	TokenBySymbol(ctx context.Context, symbol string) (*types.TokenRecord, error)
	TokenByAddress(ctx context.Context, address string) (*types.TokenRecord, error)
	UpdateToken(ctx context.Context, token *types.TokenRecord) error
}

// UpdateToken writes both lookup keys so symbol and address reads stay
// coherent.
func (c *Redis) UpdateToken(ctx context.Context, token *types.TokenRecord) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, KeyTokenBySymbol+token.Symbol, string(data), c.expiredTime).Err(); err != nil {
		return err
	}
	if err := c.client.Set(ctx, KeyTokenByAddress+token.Address, string(data), c.expiredTime).Err(); err != nil {
		return err
	}
	return nil
}

func (c *Redis) TokenBySymbol(ctx context.Context, symbol string) (*types.TokenRecord, error) {
	result, err := c.client.Get(ctx, KeyTokenBySymbol+symbol).Result()
	if err != nil {
		return nil, err
	}
	var token types.TokenRecord
	if err := json.Unmarshal([]byte(result), &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (c *Redis) TokenByAddress(ctx context.Context, address string) (*types.TokenRecord, error) {
	result, err := c.client.Get(ctx, KeyTokenByAddress+address).Result()
	if err != nil {
		return nil, err
	}
	var token types.TokenRecord
	if err := json.Unmarshal([]byte(result), &token); err != nil {
		return nil, err
	}
	return &token, nil
}

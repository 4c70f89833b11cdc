// Package server
package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tokerhq/toker-backend/types"
	"github.com/tokerhq/toker-backend/utils"
)

// CreateToken submits the registration to the ledger and mirrors the
// accepted record immediately, so the creator can read their token back
// before the watcher has caught up.
func (s *infoServer) CreateToken(ctx context.Context, name, symbol string, supply uint64, url, requester string) (*types.TokenRecord, error) {
	token, err := s.node.CreateToken(ctx, name, symbol, supply, url, requester)
	if err != nil {
		return nil, err
	}
	if err := s.importToken(ctx, token); err != nil {
		s.logger.Warn("CreateToken: cannot mirror new token", zap.String("address", token.Address), zap.Error(err))
	}
	return token, nil
}

// TokenBySymbol reads cache, then storage, then asks the ledger
// directly. A node hit repairs the missing copies on the way out.
// Mirrored records carry the normalized symbol, so the lookup key is
// normalized the same way before any read.
func (s *infoServer) TokenBySymbol(ctx context.Context, symbol string) (*types.TokenRecord, error) {
	symbol = utils.NormalizeHandle(symbol)
	if token, err := s.cacheClient.TokenBySymbol(ctx, symbol); err == nil {
		return token, nil
	}
	if token, err := s.dbClient.TokenBySymbol(ctx, symbol); err == nil {
		if cErr := s.cacheClient.UpdateToken(ctx, token); cErr != nil {
			s.logger.Debug("TokenBySymbol: cannot warm cache", zap.Error(cErr))
		}
		return token, nil
	}
	address, err := s.node.TokenAddressBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return s.tokenFromNode(ctx, address)
}

func (s *infoServer) TokenByAddress(ctx context.Context, address string) (*types.TokenRecord, error) {
	if token, err := s.cacheClient.TokenByAddress(ctx, address); err == nil {
		return token, nil
	}
	if token, err := s.dbClient.TokenByAddress(ctx, address); err == nil {
		if cErr := s.cacheClient.UpdateToken(ctx, token); cErr != nil {
			s.logger.Debug("TokenByAddress: cannot warm cache", zap.Error(cErr))
		}
		return token, nil
	}
	return s.tokenFromNode(ctx, address)
}

func (s *infoServer) Tokens(ctx context.Context, filter *types.TokensFilter) ([]*types.TokenRecord, uint64, error) {
	return s.dbClient.Tokens(ctx, filter)
}

// Balance prefers the mirrored position and falls back to the ledger
// when the holder has never been synced.
func (s *infoServer) Balance(ctx context.Context, address, tokenAddress string) (*types.Balance, error) {
	balance, err := s.dbClient.Balance(ctx, address, tokenAddress)
	if err == nil && balance.Amount > 0 {
		return balance, nil
	}
	amount, err := s.node.Balance(ctx, address, tokenAddress)
	if err != nil {
		return nil, err
	}
	return &types.Balance{
		Address:      address,
		TokenAddress: tokenAddress,
		Amount:       amount,
		UpdatedAt:    time.Now().Unix(),
	}, nil
}

func (s *infoServer) BalancesByAddress(ctx context.Context, address string) ([]*types.Balance, error) {
	return s.dbClient.BalancesByAddress(ctx, address)
}

func (s *infoServer) tokenFromNode(ctx context.Context, address string) (*types.TokenRecord, error) {
	token, err := s.node.TokenDetails(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := s.importToken(ctx, token); err != nil {
		s.logger.Debug("tokenFromNode: cannot mirror token", zap.Error(err))
	}
	return token, nil
}

// importToken writes one token through storage and cache.
func (s *infoServer) importToken(ctx context.Context, token *types.TokenRecord) error {
	token.UpdatedAt = time.Now().Unix()
	if err := s.dbClient.UpsertToken(ctx, token); err != nil {
		return err
	}
	return s.cacheClient.UpdateToken(ctx, token)
}

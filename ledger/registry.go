// Package ledger
package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/tokerhq/toker-backend/types"
	"github.com/tokerhq/toker-backend/utils"
)

func (n *node) CreateToken(ctx context.Context, name, symbol string, supply uint64, url, requester string) (*types.TokenRecord, error) {
	if err := callErr(ctx); err != nil {
		return nil, err
	}
	name = utils.NormalizeHandle(name)
	symbol = utils.NormalizeHandle(symbol)

	n.mu.Lock()
	defer n.mu.Unlock()

	// Name and symbol are checked independently, name first, matching
	// the registry's published revert order.
	if n.nameTaken[name] {
		return nil, types.ErrDuplicateName
	}
	if _, ok := n.tokensBySymbol[symbol]; ok {
		return nil, types.ErrDuplicateSymbol
	}

	n.nonce++
	addr := deriveAddress("token", n.nonce, symbol)
	ts := &tokenState{
		rec: types.TokenRecord{
			Address:      addr,
			Name:         name,
			Symbol:       symbol,
			URL:          url,
			Owner:        requester,
			CappedSupply: supply,
		},
		balances: make(map[string]uint64),
	}
	n.tokens[addr] = ts
	n.tokensBySymbol[symbol] = addr
	n.nameTaken[name] = true

	ev := n.log.append(n.now().Unix(), types.EventTokenCreated, &types.Event{
		TokenCreated: &types.TokenCreatedEvent{
			TokenAddress: addr,
			Name:         name,
			Symbol:       symbol,
			Owner:        requester,
		},
	})
	ts.rec.CreatedAtBlock = ev.Height

	n.lgr.Info("Token created",
		zap.String("symbol", symbol), zap.String("address", addr), zap.String("owner", requester))
	rec := ts.rec
	return &rec, nil
}

func (n *node) TokenAddressBySymbol(ctx context.Context, symbol string) (string, error) {
	if err := callErr(ctx); err != nil {
		return "", err
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	addr, ok := n.tokensBySymbol[utils.NormalizeHandle(symbol)]
	if !ok {
		return "", types.ErrTokenNotFound
	}
	return addr, nil
}

func (n *node) TokenDetails(ctx context.Context, address string) (*types.TokenRecord, error) {
	if err := callErr(ctx); err != nil {
		return nil, err
	}
	n.mu.RLock()
	ts, ok := n.tokens[address]
	n.mu.RUnlock()
	if !ok {
		return nil, types.ErrTokenNotFound
	}
	ts.mu.Lock()
	rec := ts.rec
	ts.mu.Unlock()
	return &rec, nil
}

func (n *node) AllTokenAddresses(ctx context.Context) ([]string, error) {
	if err := callErr(ctx); err != nil {
		return nil, err
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	addrs := make([]string, 0, len(n.tokens))
	for addr := range n.tokens {
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

func (n *node) Balance(ctx context.Context, owner, tokenAddr string) (uint64, error) {
	if err := callErr(ctx); err != nil {
		return 0, err
	}
	n.mu.RLock()
	ts, ok := n.tokens[tokenAddr]
	n.mu.RUnlock()
	if !ok {
		return 0, types.ErrTokenNotFound
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.balances[owner], nil
}

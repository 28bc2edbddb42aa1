package ukcgt

import (
	"context"
	"fmt"

	"github.com/etnz/ukcgt/date"
)

// CorporateActionProvider is a source of corporate actions, like a market data API.
type CorporateActionProvider interface {
	// CorporateActions returns the actions of security effective between from and to included.
	CorporateActions(ctx context.Context, security ID, from, to date.Date) ([]CorporateAction, error)
}

// FetchCorporateActions queries p for the corporate actions of every security
// of the ledger, from its first transaction until to.
//
// Securities p cannot serve are logged and skipped.
func FetchCorporateActions(ctx context.Context, p CorporateActionProvider, l *Ledger, to date.Date, opts Options) ([]CorporateAction, error) {
	log := opts.logger()
	var actions []CorporateAction
	for _, id := range l.Securities() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		first, _ := l.First(id)
		as, err := p.CorporateActions(ctx, id, first.When(), to)
		if err != nil {
			log.Warn().Err(err).Str("security", string(id)).Msg("no corporate actions")
			continue
		}
		for _, a := range as {
			if err := a.Validate(); err != nil {
				return nil, fmt.Errorf("invalid corporate action from provider: %w", err)
			}
		}
		actions = append(actions, as...)
	}
	return actions, nil
}

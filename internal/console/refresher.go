package console

import (
	"context"

	"github.com/Alejano1/GestInvLab-proyecto/internal/gateway"
	"github.com/Alejano1/GestInvLab-proyecto/internal/reference"
	"github.com/Alejano1/GestInvLab-proyecto/internal/session"

	"go.uber.org/zap"
)

// StockRefresher reloads the state a workspace keeps between requests. Only
// the stock summary is held server-side; selector lists are fetched again on
// every screen activation, so the other kinds need no work here.
type StockRefresher struct {
	loader *reference.Loader
	logger *zap.Logger
}

func NewStockRefresher(loader *reference.Loader, logger *zap.Logger) *StockRefresher {
	return &StockRefresher{loader: loader, logger: logger}
}

func (r *StockRefresher) Refresh(ctx context.Context, cred gateway.Credential, kinds ...reference.Kind) {
	ws, ok := cred.(*session.Workspace)
	if !ok {
		return
	}
	for _, kind := range kinds {
		if kind != reference.Supplies {
			r.logger.Debug("Selector list invalidated", zap.String("kind", string(kind)), zap.String("username", ws.Username))
			continue
		}
		_, _ = r.Load(ctx, ws)
	}
}

// Load fetches the supplies into the workspace stock view. A failure is kept
// in the view as an error-marked listing and also returned.
func (r *StockRefresher) Load(ctx context.Context, ws *session.Workspace) (reference.Listing[reference.StockRow], error) {
	supplies, err := r.loader.Supplies(ctx, ws)
	if err != nil {
		r.logger.Warn("Stock refresh failed", zap.String("username", ws.Username), zap.Error(err))
	}
	stock := reference.Mark(reference.StockRows(supplies), err)
	ws.SetStock(stock)
	return stock, err
}

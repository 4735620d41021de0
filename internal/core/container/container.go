package container

import (
	"net/http"
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/internal/admin"
	"github.com/Alejano1/GestInvLab-proyecto/internal/console"
	"github.com/Alejano1/GestInvLab-proyecto/internal/core/config"
	"github.com/Alejano1/GestInvLab-proyecto/internal/gateway"
	"github.com/Alejano1/GestInvLab-proyecto/internal/middleware"
	"github.com/Alejano1/GestInvLab-proyecto/internal/movements/submission"
	"github.com/Alejano1/GestInvLab-proyecto/internal/rate_limiter"
	"github.com/Alejano1/GestInvLab-proyecto/internal/reference"
	"github.com/Alejano1/GestInvLab-proyecto/internal/reports"
	"github.com/Alejano1/GestInvLab-proyecto/internal/session"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/auditlog"

	"go.uber.org/zap"
)

const apiTimeout = 30 * time.Second

type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Gateway         *gateway.Client
	Store           *session.Store
	Issuer          *session.Issuer
	RateLimiter     *rate_limiter.RateLimiter
	Health          *middleware.Health
	AuditLog        *auditlog.Auditlog
	AuthHandler     *console.AuthHandler
	ScreenHandler   *console.ScreenHandler
	MovementHandler *console.MovementHandler
	ReportHandler   *console.ReportHandler
	AdminHandler    *console.AdminHandler
}

func NewAppContainer(cfg *config.Config, logger *zap.Logger, version string) *Container {
	store := session.NewStore(cfg.SessionTTL)
	issuer := session.NewIssuer(cfg.SessionSecret, cfg.SessionTTL)
	rateLimiter := rate_limiter.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	auditLog := auditlog.NewAuditLog(logger)

	health := middleware.NewHealth(version, cfg.APIURL, store.Len)

	client := gateway.NewClient(cfg.APIURL, cfg.AuthScheme, &http.Client{Timeout: apiTimeout}, logger)
	client.OnReachability(health.TrackUpstream)
	// a 401 anywhere ends the workspace; its draft and report go with it
	client.OnSessionExpired(func(cred gateway.Credential) {
		if ws, ok := cred.(*session.Workspace); ok {
			store.Delete(ws.ID)
			logger.Info("Workspace dropped after API rejected its token", zap.String("username", ws.Username))
		}
	})

	loader := reference.NewLoader(client)
	stockRefresher := console.NewStockRefresher(loader, logger)
	workflow := submission.NewWorkflow(client, stockRefresher, auditLog, cfg.DisplayTimezone, logger)
	reportService := reports.NewService(client, cfg.DisplayTimezone, logger)
	panel := admin.NewPanel(client, loader, stockRefresher, auditLog, logger)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Gateway:         client,
		Store:           store,
		Issuer:          issuer,
		RateLimiter:     rateLimiter,
		Health:          health,
		AuditLog:        auditLog,
		AuthHandler:     console.NewAuthHandler(client, store, issuer, rateLimiter, logger),
		ScreenHandler:   console.NewScreenHandler(store, loader, stockRefresher, panel, logger),
		MovementHandler: console.NewMovementHandler(store, loader, workflow, logger),
		ReportHandler:   console.NewReportHandler(store, reportService, logger),
		AdminHandler:    console.NewAdminHandler(store, panel, logger),
	}
}

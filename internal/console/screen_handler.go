package console

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/internal/admin"
	"github.com/Alejano1/GestInvLab-proyecto/internal/movements/draft"
	"github.com/Alejano1/GestInvLab-proyecto/internal/reference"
	"github.com/Alejano1/GestInvLab-proyecto/internal/session"
	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/roles"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScreenHandler drives the top-level view switch and the stock screen.
type ScreenHandler struct {
	responder
	loader *reference.Loader
	stock  *StockRefresher
	panel  *admin.Panel
	now    func() time.Time
}

func NewScreenHandler(store *session.Store, loader *reference.Loader, stock *StockRefresher, panel *admin.Panel, logger *zap.Logger) *ScreenHandler {
	return &ScreenHandler{
		responder: responder{store: store, logger: logger},
		loader:    loader,
		stock:     stock,
		panel:     panel,
		now:       time.Now,
	}
}

func (h *ScreenHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/screens/:screen", h.Activate)
	router.GET("/stock", h.GetStock)
	router.GET("/stock/:supplyId/lots", h.GetStockLots)
}

// Activate switches the workspace to a screen and returns that screen's
// reference data. Each list fails on its own; only an expired session aborts.
func (h *ScreenHandler) Activate(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	screen := session.Screen(c.Param("screen"))
	if screen == session.ScreenAdmin && !ws.Role.HasPermission(roles.Staff) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
		return
	}

	changed, err := ws.Activate(screen)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	response := gin.H{"screen": screen, "changed": changed}

	switch screen {
	case session.ScreenStock:
		stock, err := h.stock.Load(ctx, ws)
		if h.expired(c, err) {
			return
		}
		response["stock"] = stock
	case session.ScreenReceipt:
		supplies, err := h.loader.Supplies(ctx, ws)
		if h.expired(c, err) {
			return
		}
		response["supplies"] = reference.Mark(reference.SupplyOptions(supplies), err)
		response["lines"] = draftLines(ws, draft.KindReceipt)
	case session.ScreenIssue:
		supplies, err := h.loader.Supplies(ctx, ws)
		if h.expired(c, err) {
			return
		}
		response["supplies"] = reference.Mark(reference.SupplyOptions(supplies), err)

		services, err := h.loader.Services(ctx, ws)
		if h.expired(c, err) {
			return
		}
		response["services"] = reference.Mark(reference.ServiceOptions(services), err)
		response["lines"] = draftLines(ws, draft.KindIssue)
	case session.ScreenReports:
		supplies, err := h.loader.Supplies(ctx, ws)
		if h.expired(c, err) {
			return
		}
		response["supplies"] = reference.Mark(reference.SupplyOptions(supplies), err)

		services, err := h.loader.Services(ctx, ws)
		if h.expired(c, err) {
			return
		}
		response["services"] = reference.Mark(reference.ServiceOptions(services), err)

		users, err := h.loader.Users(ctx, ws)
		if h.expired(c, err) {
			return
		}
		response["users"] = reference.Mark(reference.UserOptions(users), err)
	case session.ScreenAdmin:
		tables, err := h.panel.Tables(ctx, ws, ws.Username)
		if h.expired(c, err) {
			return
		}
		response["tables"] = tables
	}

	c.JSON(http.StatusOK, response)
}

func (h *ScreenHandler) GetStock(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	stock, err := h.stock.Load(c.Request.Context(), ws)
	if h.expired(c, err) {
		return
	}

	c.JSON(http.StatusOK, stock)
}

func (h *ScreenHandler) GetStockLots(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	supplyID, err := strconv.Atoi(c.Param("supplyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supply ID", "details": err.Error()})
		return
	}

	lots, err := h.loader.Lots(c.Request.Context(), ws, supplyID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reference.LotRows(lots, h.now()))
}

func draftLines(ws *session.Workspace, kind draft.Kind) []draft.Line {
	d, err := ws.Draft(kind)
	if err != nil {
		return []draft.Line{}
	}
	return d.Lines()
}

// expired answers the request when err is an expired session. Other errors
// stay with their listing so the rest of the screen still renders.
func (h *ScreenHandler) expired(c *gin.Context, err error) bool {
	if !errors.Is(err, custom_error.ErrSessionExpired) {
		return false
	}
	h.respondError(c, err)
	return true
}

package console

import (
	"net/http"
	"strconv"

	"github.com/Alejano1/GestInvLab-proyecto/internal/movements/draft"
	"github.com/Alejano1/GestInvLab-proyecto/internal/movements/submission"
	"github.com/Alejano1/GestInvLab-proyecto/internal/reference"
	"github.com/Alejano1/GestInvLab-proyecto/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MovementHandler serves the entrada and salida screens: draft editing and
// submission.
type MovementHandler struct {
	responder
	loader   *reference.Loader
	workflow *submission.Workflow
}

type issueLineRequest struct {
	Supply      draft.SupplyRef   `json:"supply"`
	LotID       int               `json:"lot_id"`
	Quantity    int               `json:"quantity"`
	Destination *draft.ServiceRef `json:"destination"`
}

func NewMovementHandler(store *session.Store, loader *reference.Loader, workflow *submission.Workflow, logger *zap.Logger) *MovementHandler {
	return &MovementHandler{
		responder: responder{store: store, logger: logger},
		loader:    loader,
		workflow:  workflow,
	}
}

func (h *MovementHandler) RegisterRoutes(router *gin.RouterGroup) {
	entrada := router.Group("/entrada")
	entrada.GET("/lines", h.lines(draft.KindReceipt))
	entrada.POST("/lines", h.AddReceiptLine)
	entrada.DELETE("/lines/:id", h.removeLine(draft.KindReceipt))
	entrada.POST("/submit", h.submit(draft.KindReceipt))

	salida := router.Group("/salida")
	salida.GET("/lots", h.GetIssueLots)
	salida.PUT("/destination", h.SelectDestination)
	salida.GET("/lines", h.lines(draft.KindIssue))
	salida.POST("/lines", h.AddIssueLine)
	salida.DELETE("/lines/:id", h.removeLine(draft.KindIssue))
	salida.POST("/submit", h.submit(draft.KindIssue))
}

func (h *MovementHandler) AddReceiptLine(c *gin.Context) {
	ws, d, done, ok := h.begin(c, draft.KindReceipt)
	if !ok {
		return
	}
	defer done()

	var form draft.ReceiptLineForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	lines, err := d.AddReceiptLine(form)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Debug("Receipt line added", zap.String("username", ws.Username), zap.Int("lines", len(lines)))
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// GetIssueLots lists the lots of a supply and captures them as the ceilings
// for lines added afterwards.
func (h *MovementHandler) GetIssueLots(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	if _, err := ws.Draft(draft.KindIssue); err != nil {
		h.respondError(c, err)
		return
	}

	supplyID, _ := strconv.Atoi(c.Query("insumo_id"))
	lots, err := h.loader.Lots(c.Request.Context(), ws, supplyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ws.CaptureLots(supplyID, lots)

	c.JSON(http.StatusOK, reference.LotOptions(lots))
}

func (h *MovementHandler) SelectDestination(c *gin.Context) {
	_, d, done, ok := h.begin(c, draft.KindIssue)
	if !ok {
		return
	}
	defer done()

	var destination draft.ServiceRef
	if err := c.ShouldBindJSON(&destination); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := d.SelectDestination(destination); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"destination": destination})
}

func (h *MovementHandler) AddIssueLine(c *gin.Context) {
	ws, d, done, ok := h.begin(c, draft.KindIssue)
	if !ok {
		return
	}
	defer done()

	var req issueLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	form := draft.IssueLineForm{Supply: req.Supply, Quantity: req.Quantity}
	if req.Destination != nil {
		form.Destination = *req.Destination
	} else if destination, selected := d.Destination(); selected {
		form.Destination = destination
	}
	// the ceiling is the stock captured when the lots were listed, not a fresh read
	if lot, err := reference.FindLot(ws.CapturedLots(req.Supply.ID), req.LotID); err == nil {
		form.Lot = draft.LotRef{ID: lot.ID, Number: lot.Number, Available: lot.Stock}
	}

	lines, err := d.AddIssueLine(form)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

func (h *MovementHandler) lines(kind draft.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, ok := h.workspace(c)
		if !ok {
			return
		}
		d, err := ws.Draft(kind)
		if err != nil {
			h.respondError(c, err)
			return
		}

		response := gin.H{"lines": d.Lines(), "can_submit": !d.Empty()}
		if destination, selected := d.Destination(); selected {
			response["destination"] = destination
		}
		c.JSON(http.StatusOK, response)
	}
}

func (h *MovementHandler) removeLine(kind draft.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, d, done, ok := h.begin(c, kind)
		if !ok {
			return
		}
		defer done()

		temporaryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line ID", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"lines": d.RemoveLine(temporaryID)})
	}
}

func (h *MovementHandler) submit(kind draft.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, d, done, ok := h.begin(c, kind)
		if !ok {
			return
		}
		defer done()

		result, err := h.workflow.Submit(c.Request.Context(), ws, ws.Username, d)
		if err != nil {
			h.respondError(c, err)
			return
		}

		h.logger.Info("Movement registered",
			zap.String("kind", string(kind)),
			zap.String("document_number", result.DocumentNumber),
			zap.String("username", ws.Username),
		)
		c.JSON(http.StatusCreated, gin.H{"result": result, "lines": d.Lines()})
	}
}

// begin resolves the draft of kind and marks the screen busy until done is
// called, so no edit interleaves with an outstanding submission.
func (h *MovementHandler) begin(c *gin.Context, kind draft.Kind) (*session.Workspace, *draft.Draft, func(), bool) {
	ws, ok := h.workspace(c)
	if !ok {
		return nil, nil, nil, false
	}
	d, err := ws.Draft(kind)
	if err != nil {
		h.respondError(c, err)
		return nil, nil, nil, false
	}
	done, err := ws.Begin(string(kind))
	if err != nil {
		h.respondError(c, err)
		return nil, nil, nil, false
	}
	return ws, d, done, true
}

package console

import (
	"net/http"
	"strconv"

	"github.com/Alejano1/GestInvLab-proyecto/internal/admin"
	"github.com/Alejano1/GestInvLab-proyecto/internal/session"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/roles"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	responder
	panel *admin.Panel
}

type thresholdRequest struct {
	Threshold *int `json:"umbral_critico" binding:"required"`
}

type userFlagRequest struct {
	Field string `json:"field" binding:"required"`
	Value *bool  `json:"value" binding:"required"`
}

func NewAdminHandler(store *session.Store, panel *admin.Panel, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		responder: responder{store: store, logger: logger},
		panel:     panel,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/admin", security.Authorize(roles.Staff))
	group.GET("/tables", h.GetTables)
	group.POST("/insumos", h.CreateSupply)
	group.PATCH("/insumos/:id", h.UpdateThreshold)
	group.POST("/servicios", h.CreateService)
	group.POST("/usuarios", h.CreateUser)
	group.PATCH("/usuarios/:id", h.SetUserFlag)
}

func (h *AdminHandler) GetTables(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	tables, err := h.panel.Tables(c.Request.Context(), ws, ws.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tables)
}

func (h *AdminHandler) CreateSupply(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req models.CreateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	outcome, err := h.panel.CreateSupply(c.Request.Context(), ws, ws.Username, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, outcome)
}

func (h *AdminHandler) CreateService(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req models.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	outcome, err := h.panel.CreateService(c.Request.Context(), ws, ws.Username, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, outcome)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	outcome, err := h.panel.CreateUser(c.Request.Context(), ws, ws.Username, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, outcome)
}

func (h *AdminHandler) UpdateThreshold(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	supplyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supply ID", "details": err.Error()})
		return
	}

	var req thresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Enter a valid threshold (0 or more)", "details": err.Error()})
		return
	}

	supply, err := h.panel.UpdateThreshold(c.Request.Context(), ws, ws.Username, supplyID, *req.Threshold)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, supply)
}

// SetUserFlag answers with the user as the API stored it; the table only
// changes after this returns.
func (h *AdminHandler) SetUserFlag(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "details": err.Error()})
		return
	}

	var req userFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	user, err := h.panel.SetUserFlag(c.Request.Context(), ws, ws.Username, userID, req.Field, *req.Value)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin.UserRow{User: *user, Locked: !admin.CanToggle(*user, ws.Username)})
}

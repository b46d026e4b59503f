package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/classledger/attendance/internal/api/middleware"
	"github.com/classledger/attendance/internal/composer"
	"github.com/classledger/attendance/internal/domain"
	"github.com/classledger/attendance/internal/ledger"
	"github.com/classledger/attendance/internal/orchestrator"
)

// Handler exposes the reconciliation engine and write-path orchestrator
// over REST. It is deliberately thin: all session semantics live below.
type Handler struct {
	composer     composer.Composer
	orchestrator orchestrator.Orchestrator
	ledger       ledger.Client
}

// NewHandler creates a REST handler
func NewHandler(sessionComposer composer.Composer, writeOrchestrator orchestrator.Orchestrator, ledgerClient ledger.Client) *Handler {
	return &Handler{
		composer:     sessionComposer,
		orchestrator: writeOrchestrator,
		ledger:       ledgerClient,
	}
}

// SetupRoutes registers the REST routes. Write routes sit behind auth when
// credentials are configured.
func SetupRoutes(router *gin.Engine, handler *Handler, authCfg middleware.AuthConfig) {
	router.GET("/healthz", handler.Health)

	v1 := router.Group("/v1")
	v1.GET("/sessions", handler.ListSessions)
	v1.GET("/sessions/:id", handler.GetSession)

	protected := v1.Group("", middleware.Auth(authCfg))
	protected.POST("/sessions", handler.CreateSession)
	protected.PATCH("/sessions/:id", handler.EditSession)
	protected.POST("/sessions/:id/register", handler.Register)
	protected.POST("/sessions/:id/checkin", handler.CheckIn)
}

// Health reports ledger connectivity by reading the session count
func (h *Handler) Health(c *gin.Context) {
	count, err := h.ledger.SessionCount(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", SessionCount: count})
}

// ListSessions returns all composed sessions, most recent first.
// Supplying ?viewer resolves that address's participation status per
// session; omitting it skips the predicate reads entirely.
func (h *Handler) ListSessions(c *gin.Context) {
	viewer, ok := optionalAddress(c, "viewer")
	if !ok {
		return
	}

	sessions, err := h.composer.ListAll(c.Request.Context(), viewer)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if creator := c.Query("creator"); creator != "" {
		if !common.IsHexAddress(creator) {
			respondBadRequest(c, "Invalid creator address", creator)
			return
		}
		sessions = filterByCreator(sessions, creator)
	}

	c.JSON(http.StatusOK, SessionListResponse{Sessions: sessions, Total: len(sessions)})
}

// GetSession returns one composed session
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	viewer, ok := optionalAddress(c, "viewer")
	if !ok {
		return
	}

	session, err := h.composer.GetOne(c.Request.Context(), id, viewer)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CreateSession creates a session on-chain and stores its schedule metadata
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	session, err := h.orchestrator.CreateSession(c.Request.Context(), req.Name, req.Metadata())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// EditSession merges a schedule patch while the session is still upcoming
func (h *Handler) EditSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req EditSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	session, err := h.orchestrator.EditSession(c.Request.Context(), id, req.Metadata())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Register registers the service signer for the session
func (h *Handler) Register(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	txHash, err := h.orchestrator.Register(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, TxResponse{TxHash: txHash})
}

// CheckIn checks the service signer in to the session
func (h *Handler) CheckIn(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	txHash, err := h.orchestrator.CheckIn(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, TxResponse{TxHash: txHash})
}

// sessionID parses the :id path parameter
func sessionID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid session id", c.Param("id"))
		return 0, false
	}
	return id, true
}

// optionalAddress parses an optional hex address query parameter
func optionalAddress(c *gin.Context, name string) (*common.Address, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	if !common.IsHexAddress(value) {
		respondBadRequest(c, "Invalid "+name+" address", value)
		return nil, false
	}
	address := common.HexToAddress(value)
	return &address, true
}

// filterByCreator keeps sessions created by the given address
func filterByCreator(sessions []domain.Session, creator string) []domain.Session {
	filtered := make([]domain.Session, 0, len(sessions))
	for _, session := range sessions {
		if strings.EqualFold(session.Creator, creator) ||
			strings.EqualFold(session.Creator, common.HexToAddress(creator).Hex()) {
			filtered = append(filtered, session)
		}
	}
	return filtered
}

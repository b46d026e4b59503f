package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/classledger/attendance/internal/api/shared/errors"
	"github.com/classledger/attendance/internal/domain"
	"github.com/classledger/attendance/internal/logger"
	"go.uber.org/zap"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, apierrors.NewValidationError(message))
}

// respondDomainError maps the error taxonomy onto HTTP statuses. Precondition
// failures are conflicts, signer rejection is a benign cancellation, and an
// indeterminate create outcome is surfaced as a bad gateway so callers do
// not assume success.
func respondDomainError(c *gin.Context, err error) {
	var revertErr *domain.RevertError

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, apierrors.NewNotFoundError("Session not found", err.Error()))

	case errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrAlreadyCheckedIn),
		errors.Is(err, domain.ErrNotRegistered),
		errors.Is(err, domain.ErrEditNotAllowed):
		c.JSON(http.StatusConflict, apierrors.New(apierrors.ErrCodeConflict, err.Error()))

	case errors.Is(err, domain.ErrUserRejected):
		c.JSON(http.StatusBadRequest, apierrors.New(apierrors.ErrCodeRejected, "Transaction rejected by signer"))

	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, apierrors.New(apierrors.ErrCodeInsufficientFunds, "Insufficient funds for transaction"))

	case errors.As(err, &revertErr):
		c.JSON(http.StatusUnprocessableEntity, apierrors.New(apierrors.ErrCodeReverted, "Contract rejected the call", revertErr.Reason))

	case errors.Is(err, domain.ErrContractReverted):
		c.JSON(http.StatusUnprocessableEntity, apierrors.New(apierrors.ErrCodeReverted, "Contract rejected the call"))

	case errors.Is(err, domain.ErrEventNotFound):
		logger.Error(err)
		c.JSON(http.StatusBadGateway, apierrors.New(apierrors.ErrCodeIndeterminate,
			"Creation confirmed but the assigned session id could not be determined"))

	case errors.Is(err, domain.ErrStorageUnavailable):
		logger.Error(err)
		c.JSON(http.StatusServiceUnavailable, apierrors.New(apierrors.ErrCodeStorageUnavailable, "Metadata storage unavailable"))

	case errors.Is(err, domain.ErrLedgerUnavailable):
		logger.Error(err)
		c.JSON(http.StatusServiceUnavailable, apierrors.New(apierrors.ErrCodeLedgerUnavailable, "Ledger unavailable"))

	default:
		logger.Error(err, zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, apierrors.NewInternalError("Internal server error"))
	}
}

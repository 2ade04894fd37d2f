package response

import (
	"net/http"

	"cinephoria/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError writes err in the standard envelope with the status its kind maps to.
func RespondError(c *gin.Context, message string, err error) {
	kind := apperrors.KindOf(err)
	code := StatusFor(kind)

	detail := err.Error()
	if kind == apperrors.KindInternal {
		// store errors stay in the logs
		detail = "internal error"
	}

	c.Error(err)
	RespondJSON(c, "error", code, message, nil, ErrorDetail{Code: string(kind), Detail: detail})
}

// StatusFor maps an error kind to an HTTP status code.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindInvalidDiscount:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindPaymentNotConfirmed:
		return http.StatusPaymentRequired
	case apperrors.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

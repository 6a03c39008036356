package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/hotelops/backend/internal/infrastructure/logger"
	"github.com/hotelops/backend/internal/interfaces/http/dto"
)

// FormatBindError converts a request binding failure into the error envelope.
// Malformed JSON and type mismatches name the offending field where the
// decoder reports one.
func FormatBindError(err error, requestID string) dto.Response {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		verrs     validator.ValidationErrors
	)

	switch {
	case errors.Is(err, io.EOF):
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON, "Request body is empty", requestID)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON, "Request body is not valid JSON", requestID)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return dto.NewValidationErrorResponse("Request validation failed", requestID, []dto.ValidationDetail{{
			Field:   field,
			Message: "Must be a " + typeErr.Type.String(),
		}})
	case errors.As(err, &verrs):
		details := make([]dto.ValidationDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, dto.ValidationDetail{
				Field:   fe.Field(),
				Message: "Failed on the '" + fe.Tag() + "' rule",
			})
		}
		return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
	default:
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidInput, bindErrorMessage(err), requestID)
	}
}

// HandleBindError writes a 400 response for a failed ShouldBind call.
func HandleBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatBindError(err, c.GetString(logger.GinRequestIDKey)))
}

// bindErrorMessage trims decoder noise such as "json: " prefixes.
func bindErrorMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), "json: ")
	if msg == "" {
		return "Invalid request"
	}
	return msg
}

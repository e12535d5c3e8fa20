package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func abortWithError(c *gin.Context, err error) {
	res := ResponseError{Message: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		res.Message = domain.ErrValidation.Error()
		res.Fields = verr.Fields
	}

	code := getStatusCode(err)
	if code == http.StatusInternalServerError {
		res.Message = domain.ErrInternalServerError.Error()
	}
	c.AbortWithStatusJSON(code, res)
}

// getStatusCode maps domain errors onto HTTP status codes
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrStructuralViolation), errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	default:
		logrus.Error(err)
		return http.StatusInternalServerError
	}
}

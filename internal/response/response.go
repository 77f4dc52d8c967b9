package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freightdesk/service-booking/internal/domain"
)

// envelope is the uniform response body shape.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
	Meta    *metaBody   `json:"meta,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type metaBody struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    items,
		Meta:    &metaBody{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 response with a validation error body.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Error:   &errorBody{Code: string(domain.CodeValidation), Message: message},
	})
}

// Error maps a domain error to its HTTP status. Non-domain errors become 500
// with a generic message so internals do not leak.
func Error(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	status := http.StatusInternalServerError
	message := "internal server error"

	switch code {
	case domain.CodeNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case domain.CodeValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case domain.CodeInvalidState:
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case domain.CodeConflict:
		status = http.StatusConflict
		message = err.Error()
	case domain.CodeForbidden:
		status = http.StatusForbidden
		message = err.Error()
	case domain.CodeUnauthorized:
		status = http.StatusUnauthorized
		message = err.Error()
	}

	body := envelope{Success: false, Error: &errorBody{Message: message}}
	if code != "" {
		body.Error.Code = string(code)
	} else {
		body.Error.Code = "INTERNAL"
	}
	c.JSON(status, body)
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/arjunvsingh/CareerExchange/internal/apperrors"
	"github.com/arjunvsingh/CareerExchange/internal/middleware"
	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

const internalErrorMessage = "Internal server error"

func init() {
	// Report json field names in binding errors instead of Go field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	}
}

// Responder writes the { success, data | error } envelope.
type Responder struct {
	// ExposeInternalErrors keeps the message of 500 responses. Development only.
	ExposeInternalErrors bool
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func (r Responder) respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	message := internalErrorMessage

	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	if kind == apperrors.KindInternal {
		log.WithFields(log.Fields{
			"request_id": middleware.RequestIDFromContext(c),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"error":      err,
		}).Error(message)
		if !r.ExposeInternalErrors {
			message = internalErrorMessage
		}
	}

	c.JSON(kind.HTTPStatus(), gin.H{
		"success": false,
		"error":   message,
	})
}

// bindJSON decodes the request body into req and converts binding failures
// into validation errors naming the offending field.
func bindJSON(c *gin.Context, req any) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		return apperrors.Validation("%s", fieldErrorMessage(validationErrs[0]))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.Validation("%s has an invalid type", typeErr.Field)
	}
	if errors.Is(err, io.EOF) {
		return apperrors.Validation("Request body is required")
	}
	return apperrors.Validation("Invalid request body")
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return field + " is invalid"
	}
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name, label string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("Invalid %s ID", label)
	}
	return id, nil
}

func currentUser(c *gin.Context) (models.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return models.User{}, apperrors.Unauthenticated("Access token required")
	}
	return user, nil
}

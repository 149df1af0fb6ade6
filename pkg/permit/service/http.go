package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/mint-permit-oracle/pkg/app/errors"
	apphttp "github.com/chainsafe/mint-permit-oracle/pkg/app/http"
	"github.com/chainsafe/mint-permit-oracle/pkg/permit"
)

const maxBodySize = 1 << 20

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service  Service
	validate *validator.Validate
	logger   *zap.Logger
}

// RegisterRoutes registers HTTP endpoints for the permit service on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service:  service,
		validate: newValidator(),
		logger:   logger,
	}

	r.Post("/validate", apphttp.HandleError(h.validateAndSign))
}

func (h *HTTP) validateAndSign(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if len(body) > maxBodySize {
		return apperrors.BadRequestError(nil, "request body too large")
	}

	var req permit.ValidateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.BadRequestError(err, describeValidation(err))
	}

	resp, err := h.service.ValidateAndSign(r.Context(), &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request"
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required", "required_without", "required_without_all":
		return fmt.Sprintf("missing required field %q", fe.Field())
	default:
		return fmt.Sprintf("invalid field %q", fe.Field())
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/chainsafe/mint-permit-oracle/pkg/app/errors"
	"github.com/chainsafe/mint-permit-oracle/pkg/permit"
)

const serviceName = "PermitService"

const (
	uriMaxLen            = 80
	signatureDisplaySize = 16
)

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the permit Service.
// It logs method entry/exit, duration, errors, and sanitized request/response data.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

// ValidateAndSign wraps the service method with logging
func (ls *logService) ValidateAndSign(
	ctx context.Context,
	req *permit.ValidateRequest,
) (resp *permit.ValidateResponse, err error) {
	start := time.Now()

	if req != nil {
		ls.logger.Info("ValidateAndSign started",
			zap.String("service", serviceName),
			zap.String("method", "ValidateAndSign"),
			zap.String("creator", req.Creator),
			zap.String("to", req.To),
			zap.String("uri", truncateString(req.URI, uriMaxLen)),
			zap.String("content_hash", req.Fingerprint()),
			zap.Bool("explicit_nonce", req.Nonce != nil),
		)
	}

	defer func() {
		duration := time.Since(start)

		if err != nil {
			// client mistakes are expected traffic; only internal failures are errors
			level := ls.logger.Warn
			if apperrors.IsInternalError(err) {
				level = ls.logger.Error
			}
			level("ValidateAndSign failed",
				zap.String("service", serviceName),
				zap.String("method", "ValidateAndSign"),
				zap.Stringer("category", apperrors.CategoryOf(err)),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
			return
		}

		ls.logger.Info("ValidateAndSign completed",
			zap.String("service", serviceName),
			zap.String("method", "ValidateAndSign"),
			zap.String("to", resp.Permit.To),
			zap.String("nonce", resp.Permit.Nonce),
			zap.String("deadline", resp.Permit.Deadline),
			zap.String("validator", resp.Validator),
			zap.String("signature", redactSignature(resp.Signature)),
			zap.Duration("duration", duration),
		)
	}()

	return ls.svc.ValidateAndSign(ctx, req)
}

// truncateString limits string length for logging to prevent log spam
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// redactSignature shows only the edges and length of a signature
func redactSignature(sig string) string {
	if sig == "" {
		return "<empty>"
	}
	sigLen := len(sig)
	if sigLen > signatureDisplaySize {
		return fmt.Sprintf("%s...%s (%d bytes)", sig[:8], sig[sigLen-4:], sigLen)
	}
	return fmt.Sprintf("<%d bytes>", sigLen)
}

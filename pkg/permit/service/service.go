package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/chainsafe/mint-permit-oracle/internal/metrics"
	apperrors "github.com/chainsafe/mint-permit-oracle/pkg/app/errors"
	"github.com/chainsafe/mint-permit-oracle/pkg/permit"
)

var (
	ErrMalformedInput   = errors.New("malformed input")
	ErrNotAuthorized    = errors.New("creator not authorized")
	ErrDuplicateContent = errors.New("duplicate content")
	ErrSigningFailure   = errors.New("signing failure")
)

// Allowlist reports whether a creator may request permits
type Allowlist interface {
	IsAllowed(creator common.Address) bool
}

// Dedup admits a content fingerprint at most once
type Dedup interface {
	Admit(fingerprint common.Hash) bool
}

// Nonces issues the next nonce for a recipient
type Nonces interface {
	Next(recipient common.Address) *uint256.Int
}

// Signer signs permit digests with the validator key
//
//go:generate mockery --name Signer --output mocks --outpkg mocks --filename mock_signer.go --with-expecter
type Signer interface {
	SignHash(digest common.Hash) ([]byte, error)
	Address() common.Address
}

// Service validates mint requests and signs permits for them
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	ValidateAndSign(ctx context.Context, req *permit.ValidateRequest) (*permit.ValidateResponse, error)
}

type permitService struct {
	allowlist Allowlist
	dedup     Dedup
	nonces    Nonces
	signer    Signer
	domain    permit.Domain
	logger    *zap.Logger
}

// NewService creates a permit service over process-scoped state
func NewService(
	allowlist Allowlist,
	dedup Dedup,
	nonces Nonces,
	signer Signer,
	domain permit.Domain,
	logger *zap.Logger,
) Service {
	return &permitService{
		allowlist: allowlist,
		dedup:     dedup,
		nonces:    nonces,
		signer:    signer,
		domain:    domain,
		logger:    logger,
	}
}

// parsedRequest is a ValidateRequest with every field decoded
type parsedRequest struct {
	creator     common.Address
	to          common.Address
	uriHash     common.Hash
	fingerprint common.Hash
	nonce       *uint256.Int // nil when the registry issues one
	deadline    uint64
}

// ValidateAndSign runs the request through, in order:
//  1. parsing of every field, explicit nonce included
//  2. the allowlist check on the creator
//  3. dedup admission of the content fingerprint
//  4. nonce resolution, explicit or registry-issued
//  5. digest construction and signing
//
// Steps 3 and 4 mutate shared state and are never rolled back. A failure at
// step 5 leaves the fingerprint admitted and the nonce consumed.
func (s *permitService) ValidateAndSign(
	ctx context.Context,
	req *permit.ValidateRequest,
) (*permit.ValidateResponse, error) {
	in, err := parseRequest(req)
	if err != nil {
		metrics.RejectionsTotal.WithLabelValues(metrics.ReasonMalformed).Inc()
		return nil, err
	}

	if !s.allowlist.IsAllowed(in.creator) {
		metrics.RejectionsTotal.WithLabelValues(metrics.ReasonNotAuthorized).Inc()
		return nil, apperrors.ForbiddenError(ErrNotAuthorized, "creator not in allowlist")
	}

	// nothing has been consumed yet, so an abandoned request can still bail out cleanly
	if err := ctx.Err(); err != nil {
		return nil, apperrors.CanceledError(err)
	}

	if !s.dedup.Admit(in.fingerprint) {
		metrics.RejectionsTotal.WithLabelValues(metrics.ReasonDuplicate).Inc()
		return nil, apperrors.ConflictError(ErrDuplicateContent, "duplicate content hash")
	}
	metrics.FingerprintsAdmitted.Inc()

	nonce := in.nonce
	if nonce == nil {
		nonce = s.nonces.Next(in.to)
		metrics.NoncesTotal.WithLabelValues(metrics.NonceIssued).Inc()
	} else {
		metrics.NoncesTotal.WithLabelValues(metrics.NonceExplicit).Inc()
	}

	p := &permit.MintPermit{
		To:       in.to,
		URIHash:  in.uriHash,
		ArtHash:  in.fingerprint,
		Nonce:    nonce,
		Deadline: in.deadline,
	}

	sig, err := s.sign(p)
	if err != nil {
		metrics.RejectionsTotal.WithLabelValues(metrics.ReasonSigning).Inc()
		metrics.BurnedTotal.Inc()
		s.logger.Error("permit signing failed; fingerprint and nonce stay consumed",
			zap.String("fingerprint", in.fingerprint.Hex()),
			zap.String("to", in.to.Hex()),
			zap.String("nonce", nonce.Dec()),
			zap.Error(err),
		)
		return nil, apperrors.GeneralError(fmt.Errorf("%w: %w", ErrSigningFailure, err))
	}
	metrics.PermitsSigned.Inc()

	return &permit.ValidateResponse{
		Permit:    p.JSON(),
		Signature: hexutil.Encode(sig),
		Validator: s.signer.Address().Hex(),
	}, nil
}

func (s *permitService) sign(p *permit.MintPermit) ([]byte, error) {
	start := time.Now()
	defer func() { metrics.SigningDuration.Observe(time.Since(start).Seconds()) }()

	digest, err := permit.Digest(p, s.domain)
	if err != nil {
		return nil, err
	}
	return s.signer.SignHash(digest)
}

func parseRequest(req *permit.ValidateRequest) (*parsedRequest, error) {
	if req == nil {
		return nil, malformed(errors.New("empty request"), "request body required")
	}

	creator, err := permit.ParseAddress(req.Creator)
	if err != nil {
		return nil, malformed(err, "invalid creator address")
	}
	to, err := permit.ParseAddress(req.To)
	if err != nil {
		return nil, malformed(err, "invalid recipient address")
	}
	fingerprint, err := req.ParseFingerprint()
	if err != nil {
		return nil, malformed(err, "invalid content hash")
	}
	if req.Deadline == nil {
		return nil, malformed(errors.New("deadline missing"), "deadline required")
	}

	in := &parsedRequest{
		creator:     creator,
		to:          to,
		uriHash:     permit.URIHash(req.URI),
		fingerprint: fingerprint,
		deadline:    *req.Deadline,
	}
	if req.Nonce != nil {
		if in.nonce, err = permit.ParseNonce(*req.Nonce); err != nil {
			return nil, malformed(err, "invalid nonce")
		}
	}
	return in, nil
}

func malformed(err error, message string) error {
	return apperrors.BadRequestError(fmt.Errorf("%w: %w", ErrMalformedInput, err), message)
}

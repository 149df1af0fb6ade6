// Package admin exposes read and maintenance endpoints over the oracle's
// in-memory state: the creator allowlist, issued nonces and dedup counters.
package admin

import (
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/chainsafe/mint-permit-oracle/internal/metrics"
	apperrors "github.com/chainsafe/mint-permit-oracle/pkg/app/errors"
	apphttp "github.com/chainsafe/mint-permit-oracle/pkg/app/http"
	"github.com/chainsafe/mint-permit-oracle/pkg/auth"
	"github.com/chainsafe/mint-permit-oracle/pkg/permit"
)

// Allowlist is the mutable creator allowlist
type Allowlist interface {
	Add(creator common.Address) bool
	Remove(creator common.Address) bool
	List() []common.Address
	Len() int
}

// Nonces is the read side of the nonce registry
type Nonces interface {
	Peek(recipient common.Address) *uint256.Int
	Len() int
}

// Dedup is the read side of the dedup store
type Dedup interface {
	Len() int
}

type AllowlistResponse struct {
	Creators []string `json:"creators"`
}

type AddResponse struct {
	Added bool `json:"added"`
}

type RemoveResponse struct {
	Removed bool `json:"removed"`
}

type NonceResponse struct {
	Recipient string `json:"recipient"`
	NextNonce string `json:"next_nonce"`
}

type StatsResponse struct {
	AllowlistSize        int `json:"allowlist_size"`
	FingerprintsAdmitted int `json:"fingerprints_admitted"`
	RecipientsTracked    int `json:"recipients_tracked"`
}

// HTTP serves the admin endpoints
type HTTP struct {
	allowlist Allowlist
	nonces    Nonces
	dedup     Dedup
	logger    *zap.Logger
}

// RegisterRoutes mounts the admin endpoints under /admin behind bearer-token auth
func RegisterRoutes(
	r chi.Router,
	validator *auth.JWTValidator,
	allowlist Allowlist,
	nonces Nonces,
	dedup Dedup,
	logger *zap.Logger,
) {
	h := &HTTP{
		allowlist: allowlist,
		nonces:    nonces,
		dedup:     dedup,
		logger:    logger,
	}

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.Middleware(validator, logger))

		r.Get("/allowlist", apphttp.HandleError(h.listAllowlist))
		r.Put("/allowlist/{address}", apphttp.HandleError(h.addCreator))
		r.Delete("/allowlist/{address}", apphttp.HandleError(h.removeCreator))
		r.Get("/nonces/{address}", apphttp.HandleError(h.peekNonce))
		r.Get("/stats", apphttp.HandleError(h.stats))
	})
}

func (h *HTTP) listAllowlist(w http.ResponseWriter, _ *http.Request) error {
	creators := h.allowlist.List()
	resp := AllowlistResponse{Creators: make([]string, 0, len(creators))}
	for _, c := range creators {
		resp.Creators = append(resp.Creators, c.Hex())
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) addCreator(w http.ResponseWriter, r *http.Request) error {
	addr, err := addressParam(r)
	if err != nil {
		return err
	}

	added := h.allowlist.Add(addr)
	metrics.AllowlistSize.Set(float64(h.allowlist.Len()))
	h.logger.Info("allowlist creator added",
		zap.String("creator", addr.Hex()),
		zap.Bool("changed", added),
		zap.String("by", subject(r)),
	)

	apphttp.WriteJSON(w, http.StatusOK, AddResponse{Added: added})
	return nil
}

func (h *HTTP) removeCreator(w http.ResponseWriter, r *http.Request) error {
	addr, err := addressParam(r)
	if err != nil {
		return err
	}

	removed := h.allowlist.Remove(addr)
	metrics.AllowlistSize.Set(float64(h.allowlist.Len()))
	h.logger.Info("allowlist creator removed",
		zap.String("creator", addr.Hex()),
		zap.Bool("changed", removed),
		zap.String("by", subject(r)),
	)

	apphttp.WriteJSON(w, http.StatusOK, RemoveResponse{Removed: removed})
	return nil
}

func (h *HTTP) peekNonce(w http.ResponseWriter, r *http.Request) error {
	addr, err := addressParam(r)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, NonceResponse{
		Recipient: addr.Hex(),
		NextNonce: h.nonces.Peek(addr).Dec(),
	})
	return nil
}

func (h *HTTP) stats(w http.ResponseWriter, _ *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, StatsResponse{
		AllowlistSize:        h.allowlist.Len(),
		FingerprintsAdmitted: h.dedup.Len(),
		RecipientsTracked:    h.nonces.Len(),
	})
	return nil
}

func addressParam(r *http.Request) (common.Address, error) {
	addr, err := permit.ParseAddress(strings.TrimSpace(chi.URLParam(r, "address")))
	if err != nil {
		return common.Address{}, apperrors.BadRequestError(err, "invalid address")
	}
	return addr, nil
}

func subject(r *http.Request) string {
	sub, _ := auth.SubjectFromContext(r.Context())
	return sub
}

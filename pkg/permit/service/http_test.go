package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/mint-permit-oracle/pkg/app/errors"
	apphttp "github.com/chainsafe/mint-permit-oracle/pkg/app/http"
	"github.com/chainsafe/mint-permit-oracle/pkg/permit"
	"github.com/chainsafe/mint-permit-oracle/pkg/permit/service/mocks"
)

const validBody = `{
	"creator": "0x1111111111111111111111111111111111111111",
	"to": "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23",
	"uri": "ipfs://artwork.json",
	"contentHash": "0x1322ce8bd7553ad00d781150743cb3b760c5715f55bd25a042b3f39e8c28251a",
	"deadline": 1893456000
}`

func newRouter(svc Service) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, zap.NewNop())
	return r
}

func doValidate(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apphttp.ErrorResponse {
	t.Helper()
	var got apphttp.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode error response: %v (body %q)", err, rec.Body.String())
	}
	return got
}

func TestValidateHandler_Success(t *testing.T) {
	svc := mocks.NewService(t)
	resp := &permit.ValidateResponse{
		Permit: permit.PermitJSON{
			To:       "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23",
			URIHash:  "0x01",
			ArtHash:  "0x02",
			Nonce:    "0",
			Deadline: "1893456000",
		},
		Signature: "0xdead",
		Validator: "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23",
	}
	svc.EXPECT().ValidateAndSign(mock.Anything, mock.MatchedBy(func(req *permit.ValidateRequest) bool {
		return req.Creator == "0x1111111111111111111111111111111111111111" &&
			req.Nonce == nil &&
			req.Deadline != nil && *req.Deadline == 1893456000
	})).Return(resp, nil).Once()

	rec := doValidate(t, newRouter(svc), validBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body %q)", http.StatusOK, rec.Code, rec.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	p, ok := got["permit"].(map[string]any)
	if !ok {
		t.Fatalf("missing permit object in %v", got)
	}
	// nonce and deadline travel as decimal strings
	if p["nonce"] != "0" || p["deadline"] != "1893456000" {
		t.Fatalf("unexpected permit %v", p)
	}
	if got["signature"] != "0xdead" || got["validator"] != resp.Validator {
		t.Fatalf("unexpected response %v", got)
	}
}

func TestValidateHandler_ExplicitNonceAndLegacyHash(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().ValidateAndSign(mock.Anything, mock.MatchedBy(func(req *permit.ValidateRequest) bool {
		return req.Nonce != nil && *req.Nonce == "42" && req.SHA256 != "" && req.ContentHash == ""
	})).Return(&permit.ValidateResponse{}, nil).Once()

	body := `{
		"creator": "0x1111111111111111111111111111111111111111",
		"to": "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23",
		"uri": "ipfs://artwork.json",
		"sha256": "0x1322ce8bd7553ad00d781150743cb3b760c5715f55bd25a042b3f39e8c28251a",
		"nonce": "42",
		"deadline": 0
	}`
	rec := doValidate(t, newRouter(svc), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body %q)", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestValidateHandler_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "invalid json", body: `{"creator":`, wantMsg: "invalid JSON"},
		{name: "wrong type", body: `{"deadline":"soon"}`, wantMsg: "invalid JSON"},
		{
			name:    "missing creator",
			body:    `{"to":"0x2c7536E3605D9C16a7a3D7b1898e529396a65c23","contentHash":"0x01","deadline":1}`,
			wantMsg: `missing required field "creator"`,
		},
		{
			name:    "missing content hash",
			body:    `{"creator":"0x1111111111111111111111111111111111111111","to":"0x2c7536E3605D9C16a7a3D7b1898e529396a65c23","deadline":1}`,
			wantMsg: `missing required field "contentHash"`,
		},
		{
			name:    "missing deadline",
			body:    `{"creator":"0x1111111111111111111111111111111111111111","to":"0x2c7536E3605D9C16a7a3D7b1898e529396a65c23","contentHash":"0x01"}`,
			wantMsg: `missing required field "deadline"`,
		},
		{
			name:    "body too large",
			body:    `{"uri":"` + strings.Repeat("a", maxBodySize) + `"}`,
			wantMsg: "request body too large",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// the service must never be reached
			svc := mocks.NewService(t)
			rec := doValidate(t, newRouter(svc), tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
			if got := decodeError(t, rec); got.ErrMsg != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, got.ErrMsg)
			}
		})
	}
}

func TestValidateHandler_MapsServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "malformed",
			err:        apperrors.BadRequestError(ErrMalformedInput, "invalid content hash"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid content hash",
		},
		{
			name:       "not authorized",
			err:        apperrors.ForbiddenError(ErrNotAuthorized, "creator not in allowlist"),
			wantStatus: http.StatusForbidden,
			wantMsg:    "creator not in allowlist",
		},
		{
			name:       "duplicate",
			err:        apperrors.ConflictError(ErrDuplicateContent, "duplicate content hash"),
			wantStatus: http.StatusConflict,
			wantMsg:    "duplicate content hash",
		},
		{
			name:       "canceled",
			err:        apperrors.CanceledError(context.Canceled),
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "request canceled",
		},
		{
			name:       "signing failure hides cause",
			err:        apperrors.GeneralError(errors.Join(ErrSigningFailure, errors.New("key material unavailable"))),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewService(t)
			svc.EXPECT().ValidateAndSign(mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			rec := doValidate(t, newRouter(svc), validBody)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			got := decodeError(t, rec)
			if got.ErrMsg != tc.wantMsg || got.ErrMsgCode != tc.wantStatus {
				t.Fatalf("unexpected error response %+v", got)
			}
		})
	}
}

func TestValidateHandler_MethodNotAllowed(t *testing.T) {
	r := newRouter(mocks.NewService(t))
	req := httptest.NewRequest(http.MethodGet, "/validate", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/cider/internal/transport"
)

// QuotaHandler reports client-side catalog API quota usage.
type QuotaHandler struct {
	rl *transport.RateLimiter
}

// NewQuotaHandler creates a new QuotaHandler. rl may be nil.
func NewQuotaHandler(rl *transport.RateLimiter) *QuotaHandler {
	return &QuotaHandler{rl: rl}
}

// QuotaOutput is the response body for the quota endpoint.
type QuotaOutput struct {
	Body struct {
		Limit     int64     `json:"limit"     example:"1000"                 doc:"Configured calls per window (0 = unlimited)"`
		Used      int64     `json:"used"      example:"142"                  doc:"Calls made in the current window"`
		Remaining int64     `json:"remaining" example:"858"                  doc:"Calls left in the current window (-1 = unlimited)"`
		ResetAt   time.Time `json:"reset_at"  example:"2026-06-16T14:30:00Z" doc:"When the current window ends"`
	}
}

// GetQuota returns the current quota status.
func (h *QuotaHandler) GetQuota(_ context.Context, _ *struct{}) (*QuotaOutput, error) {
	resp := &QuotaOutput{}
	if h.rl == nil {
		resp.Body.Remaining = -1
		return resp, nil
	}

	resp.Body.Limit = h.rl.MaxCalls()
	resp.Body.Used = h.rl.Used()
	resp.Body.Remaining = h.rl.Remaining()
	resp.Body.ResetAt = h.rl.ResetAt()

	return resp, nil
}

// RegisterQuotaRoutes registers the quota endpoint with the Huma API.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota",
		Summary:     "Get catalog API quota status",
		Description: "Returns calls used and remaining in the current rate-limit window.",
		Tags:        []string{"catalog"},
	}, h.GetQuota)
}

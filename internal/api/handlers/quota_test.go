package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/cider/internal/api/handlers"
	"github.com/donaldgifford/cider/internal/transport"
)

func TestGetQuota(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		rl         *transport.RateLimiter
		preCalls   int
		wantLimit  int64
		wantUsed   int64
		wantRemain int64
	}{
		{
			name:       "nil rate limiter reports unlimited",
			wantRemain: -1,
		},
		{
			name:       "limiter without quota",
			rl:         transport.NewRateLimiter(100, 10),
			preCalls:   2,
			wantUsed:   2,
			wantRemain: -1,
		},
		{
			name:       "limiter with usage",
			rl:         transport.NewRateLimiter(100, 10, transport.WithQuota(100, time.Hour)),
			preCalls:   3,
			wantLimit:  100,
			wantUsed:   3,
			wantRemain: 97,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for range tt.preCalls {
				require.NoError(t, tt.rl.Wait(context.Background()))
			}

			_, api := humatest.New(t)
			handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(tt.rl))

			resp := api.Get("/api/v1/quota")
			require.Equal(t, http.StatusOK, resp.Code)

			var body struct {
				Limit     int64 `json:"limit"`
				Used      int64 `json:"used"`
				Remaining int64 `json:"remaining"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, tt.wantLimit, body.Limit)
			assert.Equal(t, tt.wantUsed, body.Used)
			assert.Equal(t, tt.wantRemain, body.Remaining)
		})
	}
}

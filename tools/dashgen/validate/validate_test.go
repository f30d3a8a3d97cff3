package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/cider/tools/dashgen/validate"
)

var known = map[string]bool{
	"cider_http_requests_total":           true,
	"cider_http_request_duration_seconds": true,
	"cider:http_requests:rate5m":          true,
}

func TestExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		expr        string
		wantErr     string
		wantWarning bool
	}{
		{name: "counter rate", expr: `sum(rate(cider_http_requests_total[5m]))`},
		{name: "recording rule", expr: `cider:http_requests:rate5m * 2`},
		{
			name: "histogram bucket suffix",
			expr: `histogram_quantile(0.95, sum(rate(cider_http_request_duration_seconds_bucket[5m])) by (le))`,
		},
		{name: "unknown metric", expr: `rate(cider_nope_total[5m])`, wantErr: "unknown metric"},
		{name: "syntax error", expr: `sum(rate(cider_http_requests_total[5m])`, wantErr: "parsing"},
		{name: "empty", expr: "  ", wantWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := validate.Expr(tt.expr, known)
			if tt.wantErr != "" {
				require.False(t, res.Ok())
				assert.Contains(t, res.Errors[0].Error(), tt.wantErr)
				return
			}
			assert.True(t, res.Ok(), "errors: %v", res.Errors)
			assert.Equal(t, tt.wantWarning, len(res.Warnings) > 0)
		})
	}
}

func TestDashboard_WalksNestedTargets(t *testing.T) {
	t.Parallel()

	dash := map[string]any{
		"panels": []any{
			map[string]any{
				"panels": []any{
					map[string]any{"targets": []any{map[string]any{"expr": `cider_http_requests_total`}}},
					map[string]any{"targets": []any{map[string]any{"expr": `cider_missing`}}},
				},
			},
		},
	}

	res := validate.Dashboard(dash, known)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), "cider_missing")
}

func TestDashboard_NoQueries(t *testing.T) {
	t.Parallel()

	res := validate.Dashboard(map[string]any{"panels": []any{}}, known)
	assert.True(t, res.Ok())
	assert.NotEmpty(t, res.Warnings)
}

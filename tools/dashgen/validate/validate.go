// Package validate checks generated dashboards and rules for PromQL syntax
// errors and references to metrics the service does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"
)

// histogramSuffixes are stripped before looking a series up in the known set.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Result collects validation findings.
type Result struct {
	Errors   []error
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) merge(o Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// Expr parses expr and checks every selected metric against known.
func Expr(expr string, known map[string]bool) Result {
	var res Result

	if strings.TrimSpace(expr) == "" {
		res.Warnings = append(res.Warnings, "empty expression")
		return res
	}

	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("parsing %q: %w", expr, err))
		return res
	}

	for _, name := range MetricNames(parsed) {
		if !isKnown(name, known) {
			res.Errors = append(res.Errors, fmt.Errorf("unknown metric %q in %q", name, expr))
		}
	}
	return res
}

// Exprs validates each expression in turn.
func Exprs(exprs []string, known map[string]bool) Result {
	var res Result
	for _, e := range exprs {
		res.merge(Expr(e, known))
	}
	return res
}

// Dashboard validates every "expr" found in the JSON form of dash.
func Dashboard(dash any, known map[string]bool) Result {
	data, err := json.Marshal(dash)
	if err != nil {
		return Result{Errors: []error{fmt.Errorf("encoding dashboard: %w", err)}}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Result{Errors: []error{fmt.Errorf("decoding dashboard: %w", err)}}
	}

	exprs := collectExprs(doc, nil)
	if len(exprs) == 0 {
		return Result{Warnings: []string{"dashboard has no queries"}}
	}
	return Exprs(exprs, known)
}

// MetricNames returns the metric name of every vector selector in expr.
func MetricNames(expr parser.Expr) []string {
	var names []string
	parser.Inspect(expr, func(node parser.Node, _ []parser.Node) error {
		if vs, ok := node.(*parser.VectorSelector); ok && vs.Name != "" {
			names = append(names, vs.Name)
		}
		return nil
	})
	return names
}

func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

func collectExprs(v any, out []string) []string {
	switch t := v.(type) {
	case map[string]any:
		if e, ok := t["expr"].(string); ok {
			out = append(out, e)
		}
		for _, child := range t {
			out = collectExprs(child, out)
		}
	case []any:
		for _, child := range t {
			out = collectExprs(child, out)
		}
	}
	return out
}

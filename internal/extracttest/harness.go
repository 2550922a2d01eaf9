// Package extracttest runs extraction test cases against the engine and
// aggregates pass/fail statistics.
//
// Cases come from two places: the built-in standard suite embedded with the
// binary, and user-supplied YAML files. Both run through the identical
// comparison path. Batch runs execute per case in parallel; aggregation is
// order-independent and results are reported in input order.
package extracttest

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"golang.org/x/sync/errgroup"

	"github.com/quotelane/fieldreg/internal/extract"
	"github.com/quotelane/fieldreg/internal/registry"
)

//go:embed cases.yaml
var builtinCases []byte

// Case is a single extraction expectation against a registry field.
type Case struct {
	Name    string `koanf:"name"`
	Input   string `koanf:"input"`
	Product string `koanf:"product"`
	Field   string `koanf:"field"`

	// Expected is the canonical expected value, compared after coercion.
	Expected string `koanf:"expected"`

	// MustNotExtract inverts the expectation: the case passes only when
	// extraction yields no match.
	MustNotExtract bool `koanf:"must_not_extract"`

	// MinConfidence, when set, additionally requires the match confidence
	// to be at least this value. Zero means confidence is not compared.
	MinConfidence float64 `koanf:"min_confidence"`
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Case       Case
	Passed     bool
	Value      string
	Confidence float64
	// Detail explains the discrepancy when the case failed.
	Detail string
}

// RunResult aggregates a full run.
type RunResult struct {
	RunID    string
	Total    int
	Passed   int
	Failed   int
	PassRate float64
	Results  []CaseResult
	Failures []CaseResult
}

// Runner resolves target fields from a registry and drives the engine.
type Runner struct {
	reg    *registry.Registry
	engine *extract.Engine

	// Concurrency bounds parallel case execution. Zero means a small
	// default.
	Concurrency int
}

// NewRunner creates a runner over the given registry.
func NewRunner(reg *registry.Registry) *Runner {
	return &Runner{reg: reg, engine: extract.New(reg)}
}

// Builtin returns the embedded standard cases.
func Builtin() ([]Case, error) {
	return ParseCases("builtin", builtinCases)
}

// ParseCases decodes a YAML case document of the form:
//
//	cases:
//	  - name: driver_age_explicit
//	    input: "I'm 35 years old"
//	    product: auto_insurance
//	    field: driver_age
//	    expected: "35"
func ParseCases(name string, data []byte) ([]Case, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parsing cases %s: %w", name, err)
	}
	var doc struct {
		Cases []Case `koanf:"cases"`
	}
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, fmt.Errorf("decoding cases %s: %w", name, err)
	}
	for i, c := range doc.Cases {
		if c.Name == "" || c.Product == "" || c.Field == "" {
			return nil, fmt.Errorf("cases %s: case %d needs name, product, and field", name, i)
		}
	}
	return doc.Cases, nil
}

// RunAll runs every case and aggregates the results. Individual failures
// are data, not errors; the returned error reflects only context
// cancellation.
func (r *Runner) RunAll(ctx context.Context, cases []Case) (RunResult, error) {
	results := make([]CaseResult, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	limit := r.Concurrency
	if limit <= 0 {
		limit = 8
	}
	g.SetLimit(limit)

	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.runCase(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RunResult{}, err
	}

	run := RunResult{
		RunID:   uuid.NewString(),
		Total:   len(results),
		Results: results,
	}
	for _, res := range results {
		if res.Passed {
			run.Passed++
		} else {
			run.Failed++
			run.Failures = append(run.Failures, res)
		}
	}
	if run.Total > 0 {
		run.PassRate = float64(run.Passed) / float64(run.Total)
	}
	return run, nil
}

// runCase resolves the target field and compares the extraction outcome
// against the expectation.
func (r *Runner) runCase(c Case) CaseResult {
	out := CaseResult{Case: c}

	field, err := r.reg.Field(c.Product, c.Field)
	if err != nil {
		out.Detail = err.Error()
		return out
	}

	res, ok, err := r.engine.Extract(field, c.Input)
	if err != nil {
		out.Detail = err.Error()
		return out
	}

	if c.MustNotExtract {
		if !ok {
			out.Passed = true
		} else {
			out.Value = res.Value.String()
			out.Confidence = res.Confidence
			out.Detail = fmt.Sprintf("expected no extraction, got %q", out.Value)
		}
		return out
	}

	if !ok {
		out.Detail = fmt.Sprintf("expected %q, got no extraction", c.Expected)
		return out
	}

	out.Value = res.Value.String()
	out.Confidence = res.Confidence

	if !strings.EqualFold(out.Value, c.Expected) {
		out.Detail = fmt.Sprintf("expected %q, got %q", c.Expected, out.Value)
		return out
	}
	if c.MinConfidence > 0 && res.Confidence < c.MinConfidence {
		out.Detail = fmt.Sprintf("confidence %.2f below minimum %.2f", res.Confidence, c.MinConfidence)
		return out
	}

	out.Passed = true
	return out
}

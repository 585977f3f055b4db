package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/keyhunt/keyhunt/internal/detectors"
	"github.com/keyhunt/keyhunt/internal/ledger"
	"github.com/keyhunt/keyhunt/internal/types"
	"github.com/keyhunt/keyhunt/internal/validate"
)

// CheckResult is the outcome of running one piece of text through a Pipeline.
// Key is set whenever a candidate was extracted, valid or not.
type CheckResult struct {
	Key     string        `json:"key,omitempty"`
	Verdict types.Verdict `json:"verdict"`
	Entropy float64       `json:"entropy,omitempty"`
}

// Valid reports whether the text carried a live secret.
func (r CheckResult) Valid() bool { return r.Verdict == types.VerdictValid }

// Pipeline extracts the first candidate from text, consults the invalid-key
// ledger, applies the entropy gate and finally asks the validator.
// Candidates rejected by either the entropy gate or the validator are
// appended to the invalid-key ledger.
type Pipeline struct {
	Extractor *detectors.Extractor
	Threshold float64
	Validator validate.Validator
	Invalid   ledger.Set
	// DryRun leaves the invalid-key ledger untouched.
	DryRun bool
	Log    zerolog.Logger
}

// NewPipeline wires a Pipeline with the default extractor. A non-positive
// threshold selects detectors.DefaultEntropyThreshold.
func NewPipeline(v validate.Validator, invalid ledger.Set, threshold float64) *Pipeline {
	if threshold <= 0 {
		threshold = detectors.DefaultEntropyThreshold
	}
	ex, _ := detectors.NewExtractor("")
	return &Pipeline{Extractor: ex, Threshold: threshold, Validator: v, Invalid: invalid, Log: zerolog.Nop()}
}

// Check runs text through the pipeline. Errors come only from the validator
// transport or from persisting to the ledger; nothing is recorded when the
// validator fails.
func (p *Pipeline) Check(ctx context.Context, text string) (CheckResult, error) {
	ex := p.Extractor
	if ex == nil {
		ex, _ = detectors.NewExtractor("")
	}
	key, ok := ex.First(text)
	if !ok {
		return CheckResult{Verdict: types.VerdictNoMatch}, nil
	}
	res := CheckResult{Key: key, Entropy: detectors.Entropy(key)}

	if p.Invalid != nil && p.Invalid.Contains(key) {
		res.Verdict = types.VerdictKnownInvalid
		p.Log.Debug().Str("key", Mask(key)).Msg("candidate already known invalid")
		return res, nil
	}

	if res.Entropy > p.Threshold {
		valid, err := p.Validator.Validate(ctx, key)
		if err != nil {
			return res, fmt.Errorf("validate %s: %w", Mask(key), err)
		}
		if valid {
			res.Verdict = types.VerdictValid
			return res, nil
		}
		res.Verdict = types.VerdictRejected
	} else {
		res.Verdict = types.VerdictLowEntropy
	}
	p.Log.Debug().
		Str("key", Mask(key)).
		Float64("entropy", res.Entropy).
		Str("verdict", string(res.Verdict)).
		Msg("candidate rejected")

	if p.Invalid != nil && !p.DryRun {
		if err := p.Invalid.Add(key); err != nil {
			return res, fmt.Errorf("record invalid key: %w", err)
		}
	}
	return res, nil
}

// Mask hides all but the first seven and last four characters of a secret.
func Mask(s string) string {
	if len(s) <= 12 {
		return "********"
	}
	return s[:7] + "…" + s[len(s)-4:]
}

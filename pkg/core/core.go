package core

import (
	"context"

	"github.com/keyhunt/keyhunt/internal/detectors"
	"github.com/keyhunt/keyhunt/internal/engine"
	"github.com/keyhunt/keyhunt/internal/ledger"
	"github.com/keyhunt/keyhunt/internal/types"
	"github.com/keyhunt/keyhunt/internal/validate"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Finding = types.Finding
type CheckResult = engine.CheckResult
type Verdict = types.Verdict
type Validator = validate.Validator
type ValidatorFunc = validate.Func

// DefaultEntropyThreshold is the entropy a candidate must exceed before it is
// validated.
const DefaultEntropyThreshold = detectors.DefaultEntropyThreshold

// Check runs text through the detection pipeline with a throwaway ledger.
// A non-positive threshold selects DefaultEntropyThreshold.
func Check(ctx context.Context, text string, v Validator, threshold float64) (CheckResult, error) {
	return engine.NewPipeline(v, ledger.NewMemory(), threshold).Check(ctx, text)
}

// OpenAIValidator returns a validator that asks the OpenAI API. An empty
// baseURL targets api.openai.com.
func OpenAIValidator(baseURL string) Validator {
	return &validate.OpenAI{BaseURL: baseURL}
}

// ExtractFirst returns the first key-shaped candidate in text.
func ExtractFirst(text string) (string, bool) { return detectors.ExtractFirst(text) }

// Entropy returns the Shannon entropy of s in bits per character.
func Entropy(s string) float64 { return detectors.Entropy(s) }

// Mask hides the middle of a secret for display.
func Mask(s string) string { return engine.Mask(s) }

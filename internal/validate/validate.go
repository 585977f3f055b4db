// Package validate confirms candidate secrets against the service that issued
// them. It is the only place where ground truth about validity comes from.
package validate

import (
	"context"
	"errors"
)

// ErrUnauthorized is reported by validators when the issuing service rejects
// the credential. Validate translates it into (false, nil).
var ErrUnauthorized = errors.New("credential rejected by issuer")

// Validator reports whether key is an active credential. A non-nil error means
// the check itself failed (network, server error) and must not be read as
// "invalid".
type Validator interface {
	Validate(ctx context.Context, key string) (bool, error)
}

// Func adapts a plain function to Validator.
type Func func(ctx context.Context, key string) (bool, error)

func (f Func) Validate(ctx context.Context, key string) (bool, error) { return f(ctx, key) }

// Static returns a Validator that always answers valid, for dry runs and tests.
func Static(valid bool) Validator {
	return Func(func(context.Context, string) (bool, error) { return valid, nil })
}

package journal

import "context"

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool { return f(ctx, message) }

// DenyAll declines every confirmation. It is the default so that nothing is
// deleted unless a Confirmer is wired in.
var DenyAll = ConfirmFunc(func(context.Context, string) bool { return false }) //nolint:gochecknoglobals // stateless

// AlwaysConfirm approves every confirmation.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) bool { return true }) //nolint:gochecknoglobals // stateless

type confirmedKey struct{}

// WithConfirmation stores the operator's answer to any confirmation raised
// while serving ctx.
func WithConfirmation(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, confirmedKey{}, confirmed)
}

// Confirmed reports the answer stored by WithConfirmation; false if absent.
func Confirmed(ctx context.Context) bool {
	ok, _ := ctx.Value(confirmedKey{}).(bool)
	return ok
}

// FromContext answers with the value stored by WithConfirmation.
var FromContext = ConfirmFunc(func(ctx context.Context, _ string) bool { return Confirmed(ctx) }) //nolint:gochecknoglobals // stateless

package engine

import "github.com/pkg/errors"

// ErrUnexpectedCall indicates the caller invoked an Engine method out of
// sequence (spec.md §7's StateError kind) — e.g. pushing a second
// response header before the first finished encoding.
var ErrUnexpectedCall = errors.New("engine: unexpected call for current state")

// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds the documents Decode accepts.
const DefaultMaxFileSize int64 = 1 << 20

type (
	options struct {
		maxFileSize int64
		concrete    bool
		filename    string
	}

	// Option configures Decode.
	Option func(*options)
)

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

// WithConcrete requires every value to be concrete after unification.
// Configuration files leave optional fields unset, so it defaults to false.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// WithFilename names the document in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// Decode compiles schema, unifies data with the definition at path (for
// example "#Config"), validates the result and decodes it into a T.
func Decode[T any](schema, data []byte, path string, opts ...Option) (T, error) {
	var zero T
	o := options{maxFileSize: DefaultMaxFileSize, filename: "<input>"}
	for _, opt := range opts {
		opt(&o)
	}
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return zero, err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileBytes(schema)
	if err := schemaValue.Err(); err != nil {
		return zero, fmt.Errorf("compile schema: %w", err)
	}
	def := schemaValue.LookupPath(cue.ParsePath(path))
	if err := def.Err(); err != nil {
		return zero, fmt.Errorf("schema definition %s: %w", path, err)
	}

	user := ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := user.Err(); err != nil {
		return zero, FormatError(err, o.filename)
	}

	unified := def.Unify(user)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return zero, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return zero, FormatError(err, o.filename)
	}
	return out, nil
}

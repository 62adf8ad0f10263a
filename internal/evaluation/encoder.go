// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package evaluation

import (
	"context"

	"github.com/tomtom215/sessionrank/internal/masking"
	"github.com/tomtom215/sessionrank/internal/tensor"
)

// Encoder turns masked (B, L, H) input embeddings into contextual
// representations of the same batch and sequence shape. Implementations
// must honour the attention constraints of the masking strategy.
type Encoder interface {
	Encode(ctx context.Context, inputs *tensor.Tensor3, constraints masking.Constraints) (*tensor.Tensor3, error)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(ctx context.Context, inputs *tensor.Tensor3, constraints masking.Constraints) (*tensor.Tensor3, error)

// Encode calls f.
func (f EncoderFunc) Encode(ctx context.Context, inputs *tensor.Tensor3, constraints masking.Constraints) (*tensor.Tensor3, error) {
	return f(ctx, inputs, constraints)
}

// IdentityEncoder returns its inputs unchanged.
type IdentityEncoder struct{}

// Encode returns inputs, or the context error if ctx is done.
func (IdentityEncoder) Encode(ctx context.Context, inputs *tensor.Tensor3, _ masking.Constraints) (*tensor.Tensor3, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return inputs, nil
}

var (
	_ Encoder = IdentityEncoder{}
	_ Encoder = EncoderFunc(nil)
)

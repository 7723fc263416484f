// Copyright 2025 Recall Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/recallhq/recall/ai"
)

// Dispatcher routes provider calls across the ordered credential pool.
// Each logical call starts at the first credential and advances to the next
// one only when the current attempt fails; on success the remaining
// credentials are not touched. The next logical call starts over at the
// first credential. There is no backoff and no key is skipped based on past
// failures.
type Dispatcher struct {
	config  *ai.Config
	pool    *ai.CredentialPool
	factory clientFactory
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher for the given configuration.
// The config is validated, and the credential pool is fixed at construction.
func NewDispatcher(config *ai.Config) (*Dispatcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	pool, err := ai.NewCredentialPool(config.Credentials...)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		config: config,
		pool:   pool,
		factory: func(credential string) (providerClient, error) {
			return newLangchainClient(config, credential)
		},
		logger: slog.Default().With("component", "openai-dispatcher"),
	}, nil
}

// Generate runs a text-generation call with credential failover.
// Implements ai.Generator.
func (d *Dispatcher) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	var result string
	err := d.dispatch(ctx, "generate", func(ctx context.Context, client providerClient) error {
		text, err := client.GenerateContent(ctx, req.Parts, req.JSONMode)
		if err != nil {
			return err
		}
		result = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// Embed runs an embedding call with credential failover and asserts the
// configured dimensionality. A wrong-width vector from an otherwise
// successful call is a configuration fault and does not trigger failover.
func (d *Dispatcher) Embed(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	err := d.dispatch(ctx, "embed", func(ctx context.Context, client providerClient) error {
		v, err := client.CreateEmbedding(ctx, text)
		if err != nil {
			return err
		}
		vector = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(vector) != d.config.EmbeddingDimensions {
		return nil, fmt.Errorf("%w: model %q returned %d dimensions, storage expects %d",
			ai.ErrEmbeddingDimension, d.config.EmbeddingModel, len(vector), d.config.EmbeddingDimensions)
	}
	return vector, nil
}

// dispatch walks the credential list in order until call succeeds. When
// every credential has failed it returns an *ai.ExhaustedError carrying the
// last failure.
func (d *Dispatcher) dispatch(ctx context.Context, op string, call func(context.Context, providerClient) error) error {
	var lastErr error
	for i, credential := range d.pool.Keys() {
		client, err := d.factory(credential)
		if err != nil {
			lastErr = err
			d.logger.Warn("failed to build provider client",
				"op", op, "credential_index", i, "err", err)
			continue
		}

		err = call(ctx, client)
		if err == nil {
			return nil
		}
		lastErr = err

		code := ai.CodeOf(err)
		d.logger.Warn("credential attempt failed, trying next",
			"op", op,
			"credential_index", i,
			"code", code.String(),
			"err", err)
	}

	return &ai.ExhaustedError{Attempts: d.pool.Len(), LastErr: lastErr}
}

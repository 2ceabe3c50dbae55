package tiktoken

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// EncodeBatch encodes every text in texts concurrently, preserving input
// order in the result, and cancels the remaining work as soon as any one
// text fails to encode (spec.md 5).
func (e *Encoder) EncodeBatch(ctx context.Context, texts []string, allowed AllowedSpecial) ([]Tokens, error) {
	out := make([]Tokens, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			toks, err := e.Encode(text, allowed)
			if err != nil {
				return err
			}
			out[i] = toks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeOrdinaryBatch is EncodeBatch with no special-token handling, for
// callers who already know their input never needs the specials splitter.
func (e *Encoder) EncodeOrdinaryBatch(ctx context.Context, texts []string) ([]Tokens, error) {
	out := make([]Tokens, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			toks, err := e.EncodeOrdinary(text)
			if err != nil {
				return err
			}
			out[i] = toks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeBatch decodes every token sequence in batches concurrently,
// preserving order, with the same cancel-on-first-error semantics as
// EncodeBatch.
func (e *Encoder) DecodeBatch(ctx context.Context, batches []Tokens) ([]string, error) {
	out := make([]string, len(batches))
	g, ctx := errgroup.WithContext(ctx)
	for i, toks := range batches {
		i, toks := i, toks
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := e.Decode(toks)
			if err != nil {
				return err
			}
			out[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeBatchSync is EncodeBatch's synchronous variant, for callers with no
// goroutine runtime available to them (spec.md 4.8): the same order
// guarantees, evaluated one input at a time.
func (e *Encoder) EncodeBatchSync(texts []string, allowed AllowedSpecial) ([]Tokens, error) {
	out := make([]Tokens, len(texts))
	for i, text := range texts {
		toks, err := e.Encode(text, allowed)
		if err != nil {
			return nil, err
		}
		out[i] = toks
	}
	return out, nil
}

// EncodeOrdinaryBatchSync is EncodeOrdinaryBatch's synchronous variant.
func (e *Encoder) EncodeOrdinaryBatchSync(texts []string) ([]Tokens, error) {
	out := make([]Tokens, len(texts))
	for i, text := range texts {
		toks, err := e.EncodeOrdinary(text)
		if err != nil {
			return nil, err
		}
		out[i] = toks
	}
	return out, nil
}

// DecodeBatchSync is DecodeBatch's synchronous variant.
func (e *Encoder) DecodeBatchSync(batches []Tokens) ([]string, error) {
	out := make([]string, len(batches))
	for i, toks := range batches {
		text, err := e.Decode(toks)
		if err != nil {
			return nil, err
		}
		out[i] = text
	}
	return out, nil
}

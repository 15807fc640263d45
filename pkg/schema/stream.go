// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bcicen/jstream"

	"github.com/pdiddy/isoform-kb/pkg/types"
)

// Item is one element read by Stream.
type Item struct {
	// Index is the zero-based position of the element in the stream.
	Index int

	// Article is the built record. Zero when Err is set.
	Article types.Article

	// Err is the *SchemaValidationError for an element that failed to build.
	Err error

	// Value is the decoded element as produced by the JSON decoder.
	Value any
}

// ErrStop may be returned by a Stream callback to end the stream early
// without an error.
var ErrStop = errors.New("stop stream")

// Stream decodes a sequence of Articles from r and calls fn for each one in
// order. The input is either a top-level JSON array of article objects or a
// stream of article objects (JSON Lines or concatenated JSON). Elements are
// decoded one at a time, so arbitrarily large inputs are processed in
// bounded memory.
//
// An element that fails validation is passed to fn with Item.Err set and the
// stream continues. A syntax error ends the stream and is returned, as is
// ctx.Err() on cancellation and any error from fn other than ErrStop.
// Stream returns as soon as it stops, even while r is blocked; closing r
// afterwards releases the decoder.
func Stream(ctx context.Context, r io.Reader, fn func(Item) error) error {
	br := bufio.NewReader(r)
	depth, err := streamDepth(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("reading stream: %w", err)
	}

	dec := jstream.NewDecoder(br, depth)
	values := dec.Stream()

	index := 0
	for {
		var (
			mv *jstream.MetaValue
			ok bool
		)
		select {
		case <-ctx.Done():
			stopDecoder(values)
			return ctx.Err()
		case mv, ok = <-values:
		}
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			stopDecoder(values)
			return err
		}

		item := Item{Index: index, Value: mv.Value}
		item.Article, item.Err = BuildArticleValue(mv.Value)
		index++
		if err := fn(item); err != nil {
			stopDecoder(values)
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}

	if err := dec.Err(); err != nil {
		return fmt.Errorf("parsing JSON stream at element %d: %w", index, err)
	}
	return nil
}

// stopDecoder drains the decoder in the background so its goroutine exits
// once the underlying reader reaches EOF or is closed by the caller. Stream
// itself does not wait for that.
func stopDecoder(values <-chan *jstream.MetaValue) {
	go func() {
		for range values {
		}
	}()
}

// streamDepth peeks at the first non-space byte: a top-level array emits its
// elements (depth 1), anything else emits each top-level value (depth 0).
func streamDepth(br *bufio.Reader) (int, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := br.ReadByte(); err != nil {
				return 0, err
			}
			continue
		case '[':
			return 1, nil
		}
		return 0, nil
	}
}

// Collect reads every element of a stream. It returns the built articles
// and the per-element failures keyed by index.
func Collect(ctx context.Context, r io.Reader) ([]types.Article, map[int]error, error) {
	var (
		articles []types.Article
		failures = map[int]error{}
	)
	err := Stream(ctx, r, func(it Item) error {
		if it.Err != nil {
			failures[it.Index] = it.Err
			return nil
		}
		articles = append(articles, it.Article)
		return nil
	})
	return articles, failures, err
}

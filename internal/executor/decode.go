package executor

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/imamik/sdprov/internal/storage"
)

// Decode converts one untyped result record into out. Engine versions
// disagree on whether numbers arrive as numbers or strings, so decoding is
// weakly typed. Shape mismatches are reported as storage.ErrIncompleteResult.
func Decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrIncompleteResult, err)
	}
	return nil
}

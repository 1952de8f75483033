package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// LoadJSON decodes the record at key into dst.
//
// A missing record reports found=false. A record that does not parse is
// treated the same way: it is deleted and dst is left untouched, so callers
// fall back to their empty default instead of failing.
func LoadJSON(ctx context.Context, s Store, key Key, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		slog.WarnContext(ctx, "discarding corrupt record", "key", key.String(), "error", err)
		if delErr := s.Delete(ctx, key); delErr != nil {
			return false, fmt.Errorf("kvstore: discard corrupt %s: %w", key, delErr)
		}
		return false, nil
	}
	return true, nil
}

// SaveJSON overwrites the record at key with the JSON encoding of v.
func SaveJSON(ctx context.Context, s Store, key Key, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kvstore: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

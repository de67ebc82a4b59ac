// Package kvutil provides helpers for NATS JetStream KeyValue buckets.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const defaultAttempts = 3

// EnsureBucket creates a KV bucket, or opens it when it already exists.
//
// Creation is retried with exponential backoff (10ms, 20ms, ...) because two
// processes may race to create the same bucket.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - cfg: KV bucket configuration
//   - attempts: Maximum attempts (values <= 0 mean 3)
//
// Returns:
//   - jetstream.KeyValue: The bucket handle
//   - error: Last error after all attempts
func EnsureBucket(ctx context.Context, js jetstream.JetStream, cfg jetstream.KeyValueConfig, attempts int) (jetstream.KeyValue, error) {
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	var lastErr error
	for attempt := range attempts {
		kv, err := js.CreateKeyValue(ctx, cfg)
		if err == nil {
			return kv, nil
		}

		if errors.Is(err, jetstream.ErrBucketExists) {
			kv, openErr := js.KeyValue(ctx, cfg.Bucket)
			if openErr == nil {
				return kv, nil
			}
			lastErr = fmt.Errorf("bucket exists but failed to open: %w", openErr)
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context done while creating bucket %s: %w", cfg.Bucket, ctx.Err())
		}

		if attempt < attempts-1 {
			backoff := time.Duration(1<<uint(attempt)) * 10 * time.Millisecond //nolint:gosec // attempt is small
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("create/open bucket %s after %d attempts: %w", cfg.Bucket, attempts, lastErr)
}

// DeleteBucket removes a KV bucket. A bucket that does not exist is not an error.
func DeleteBucket(ctx context.Context, js jetstream.JetStream, bucket string) error {
	err := js.DeleteKeyValue(ctx, bucket)
	if err == nil || errors.Is(err, jetstream.ErrBucketNotFound) || errors.Is(err, jetstream.ErrStreamNotFound) {
		return nil
	}

	return fmt.Errorf("delete bucket %s: %w", bucket, err)
}

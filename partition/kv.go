package partition

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/kvutil"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/natsutil"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

const (
	// IndexKey is the key holding the newline-delimited list of group keys.
	IndexKey = "index"

	defaultKVTimeout = 10 * time.Second
)

// ErrKVUnavailable marks KV failures caused by an unreachable NATS server.
var ErrKVUnavailable = errors.New("kv bucket unavailable")

// KV writes partition output to a NATS JetStream KeyValue bucket.
//
// Each group is stored under "<prefix><index>" and the index under IndexKey.
// Reset deletes and recreates the bucket, so one bucket holds exactly one run.
type KV struct {
	js      jetstream.JetStream
	bucket  string
	prefix  string
	timeout time.Duration
	kv      jetstream.KeyValue
}

var _ types.PartitionWriter = (*KV)(nil)

// KVOption configures a KV writer.
type KVOption func(*KV)

// WithKVGroupPrefix sets the key prefix for group entries.
func WithKVGroupPrefix(prefix string) KVOption {
	return func(k *KV) {
		k.prefix = prefix
	}
}

// WithKVTimeout sets the timeout applied to each bucket operation.
func WithKVTimeout(d time.Duration) KVOption {
	return func(k *KV) {
		k.timeout = d
	}
}

// NewKV creates a writer targeting bucket.
//
// Parameters:
//   - js: JetStream context
//   - bucket: KV bucket name (one bucket per concurrent run)
//   - opts: Optional configuration (WithKVGroupPrefix, WithKVTimeout)
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	w := partition.NewKV(js, "sra-partitions")
func NewKV(js jetstream.JetStream, bucket string, opts ...KVOption) *KV {
	k := &KV{
		js:      js,
		bucket:  bucket,
		prefix:  DefaultGroupPrefix,
		timeout: defaultKVTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(k)
		}
	}
	if k.timeout <= 0 {
		k.timeout = defaultKVTimeout
	}

	return k
}

// Reset deletes the bucket (if present) and creates it again empty.
func (k *KV) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	if err := kvutil.DeleteBucket(ctx, k.js, k.bucket); err != nil {
		return classify(err)
	}

	kv, err := kvutil.EnsureBucket(ctx, k.js, jetstream.KeyValueConfig{
		Bucket:      k.bucket,
		Description: "sra-dispatch partition output",
		History:     1,
	}, 0)
	if err != nil {
		return classify(err)
	}
	k.kv = kv

	return nil
}

// WriteGroup stores the newline-delimited members and returns the entry key.
func (k *KV) WriteGroup(index int, memberIDs []string) (string, error) {
	key := k.prefix + strconv.Itoa(index)
	if err := k.put(key, strings.Join(memberIDs, "\n")); err != nil {
		return "", fmt.Errorf("write group %d: %w", index, err)
	}

	return key, nil
}

// WriteIndex stores the newline-delimited group keys under IndexKey.
func (k *KV) WriteIndex(refs []string) error {
	if err := k.put(IndexKey, strings.Join(refs, "\n")); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	return nil
}

func (k *KV) put(key, value string) error {
	if k.kv == nil {
		return errors.New("bucket not initialized, call Reset first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	_, err := k.kv.Put(ctx, key, []byte(value))

	return classify(err)
}

// classify wraps connectivity failures with ErrKVUnavailable.
func classify(err error) error {
	if natsutil.Unreachable(err) {
		return fmt.Errorf("%w: %w", ErrKVUnavailable, err)
	}

	return err
}

// ReadGroup returns the member list stored under key.
func (k *KV) ReadGroup(ctx context.Context, key string) ([]string, error) {
	if k.kv == nil {
		return nil, errors.New("bucket not initialized, call Reset first")
	}

	entry, err := k.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if len(entry.Value()) == 0 {
		return []string{}, nil
	}

	return strings.Split(string(entry.Value()), "\n"), nil
}

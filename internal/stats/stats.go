package stats

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Outcome is one countable result of a payment request.
type Outcome string

const (
	RoutedFastPay   Outcome = "routed_fastpay"
	RoutedSecurePay Outcome = "routed_securepay"
	FallbackUsed    Outcome = "fallback_used"
	AllFailed       Outcome = "all_failed"
	Rejected        Outcome = "rejected"
	Misconfigured   Outcome = "misconfigured"
)

var allOutcomes = []Outcome{RoutedFastPay, RoutedSecurePay, FallbackUsed, AllFailed, Rejected, Misconfigured}

// Snapshot is a point-in-time copy of the counters.
type Snapshot map[Outcome]int64

// Recorder counts payment outcomes across requests.
type Recorder interface {
	Record(ctx context.Context, outcomes ...Outcome) error
	Snapshot(ctx context.Context) (Snapshot, error)
}

type redisRecorder struct {
	client *redis.Client
	key    string
}

func (r *redisRecorder) Record(ctx context.Context, outcomes ...Outcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	pipe := r.client.TxPipeline()
	for _, o := range outcomes {
		pipe.HIncrBy(ctx, r.key, string(o), 1)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisRecorder) Snapshot(ctx context.Context) (Snapshot, error) {
	raw, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	snap := emptySnapshot()
	for field, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		snap[Outcome(field)] = n
	}
	return snap, nil
}

type memoryRecorder struct {
	mu     sync.Mutex
	counts map[Outcome]int64
}

func newMemoryRecorder() *memoryRecorder {
	return &memoryRecorder{counts: make(map[Outcome]int64)}
}

func (m *memoryRecorder) Record(_ context.Context, outcomes ...Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range outcomes {
		m.counts[o]++
	}
	return nil
}

func (m *memoryRecorder) Snapshot(_ context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := emptySnapshot()
	for o, n := range m.counts {
		snap[o] = n
	}
	return snap, nil
}

func emptySnapshot() Snapshot {
	snap := make(Snapshot, len(allOutcomes))
	for _, o := range allOutcomes {
		snap[o] = 0
	}
	return snap
}

// NewRecorder builds a Redis recorder and falls back to in-memory on failure.
func NewRecorder(addr, pass string, db int) (Recorder, error) {
	if addr == "" {
		return newMemoryRecorder(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return newMemoryRecorder(), err
	}

	return &redisRecorder{
		client: client,
		key:    "payflow:stats",
	}, nil
}

// Package locking serializes mutations of a single project. Concurrent
// installment or cost writes against the same project would race on the
// cached financial totals, so every mutating path acquires the project lock
// first.
package locking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/internal/config"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyProjectLock = "projectledger:lock:project:%d"

	lockTTL          = 15 * time.Second
	lockRetryBackoff = 25 * time.Millisecond
	lockAcquireWait  = 5 * time.Second
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// ErrLockTimeout is returned when the project lock could not be acquired
// within the wait window.
var ErrLockTimeout = fmt.Errorf("project lock acquisition timed out")

// ProjectLocker hands out exclusive per-project locks.
type ProjectLocker interface {
	// Acquire blocks until the lock is held, the wait window elapses, or ctx
	// is done. The returned release function is safe to call exactly once.
	Acquire(ctx context.Context, projectID snowflake.ID) (release func(), err error)
}

// NewProjectLocker returns a Redis-backed locker when a Redis address is
// configured, and a single-instance in-process locker otherwise.
func NewProjectLocker(cfg config.Config, log *zap.Logger) ProjectLocker {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		log.Named("locking").Info("redis not configured, using in-process project locks")
		return newLocalLocker()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
	return &redisLocker{
		client: client,
		script: redis.NewScript(lockReleaseScript),
		log:    log.Named("locking"),
	}
}

type redisLocker struct {
	client *redis.Client
	script *redis.Script
	log    *zap.Logger
}

func (l *redisLocker) Acquire(ctx context.Context, projectID snowflake.ID) (func(), error) {
	key := fmt.Sprintf(keyProjectLock, projectID.Int64())
	token := uuid.NewString()

	deadline := time.Now().Add(lockAcquireWait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryBackoff):
		}
	}

	release := func() {
		// Release against a detached context; the caller's ctx may already be
		// cancelled during cleanup.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.script.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.log.Warn("project lock release failed, ttl will expire it",
				zap.String("key", key), zap.Error(err))
		}
	}
	return release, nil
}

// localLocker keys a mutex per project. Only safe for single-instance
// deployments; Redis covers the multi-instance case.
type localLocker struct {
	mu    sync.Mutex
	locks map[snowflake.ID]*projectLock
}

type projectLock struct {
	mu   sync.Mutex
	refs int
}

func newLocalLocker() *localLocker {
	return &localLocker{locks: make(map[snowflake.ID]*projectLock)}
}

func (l *localLocker) Acquire(ctx context.Context, projectID snowflake.ID) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[projectID]
	if !ok {
		entry = &projectLock{}
		l.locks[projectID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		entry.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-ctx.Done():
		go func() {
			<-acquired
			l.release(projectID, entry)
		}()
		return nil, ctx.Err()
	case <-time.After(lockAcquireWait):
		go func() {
			<-acquired
			l.release(projectID, entry)
		}()
		return nil, ErrLockTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(projectID, entry) })
	}, nil
}

func (l *localLocker) release(projectID snowflake.ID, entry *projectLock) {
	entry.mu.Unlock()
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, projectID)
	}
	l.mu.Unlock()
}

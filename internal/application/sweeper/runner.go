package sweeper

import (
	"context"
	"errors"
	"time"

	"inventory-backend/internal/application/assets"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Source labels runs started by the background loop.
const Source = "background"

const lockKey = "inventory:sweep:lock"

// ErrLocked means another instance holds the sweep lock.
var ErrLocked = errors.New("sweep lock held by another instance")

// releaseScript deletes the lock only if this runner still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Sweeper runs one expiry sweep.
type Sweeper interface {
	SweepExpiring(ctx context.Context, source string) (*assets.SweepResult, error)
}

// Runner periodically runs the expiry sweep. With a Redis client the run is
// guarded by a SET NX PX lock so only one instance sweeps at a time.
type Runner struct {
	Sweeper  Sweeper
	Rdb      *redis.Client
	Interval time.Duration
	LockTTL  time.Duration
}

func (r *Runner) lockTTL() time.Duration {
	if r.LockTTL > 0 {
		return r.LockTTL
	}
	return time.Minute
}

// RunOnce sweeps once. It returns ErrLocked when another instance is sweeping.
func (r *Runner) RunOnce(ctx context.Context) (*assets.SweepResult, error) {
	if r.Rdb == nil {
		return r.Sweeper.SweepExpiring(ctx, Source)
	}
	token := uuid.New().String()
	ok, err := r.Rdb.SetNX(ctx, lockKey, token, r.lockTTL()).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	defer func() {
		// fresh context so the lock is released even when ctx was cancelled
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, r.Rdb, []string{lockKey}, token).Err(); err != nil {
			log.Warn().Err(err).Msg("sweeper: lock release failed")
		}
	}()
	return r.Sweeper.SweepExpiring(ctx, Source)
}

// Start runs the sweep every Interval until ctx is done. A non-positive
// interval disables the loop. Start blocks; run it in a goroutine.
func (r *Runner) Start(ctx context.Context) {
	if r.Interval <= 0 {
		log.Info().Msg("sweeper: disabled")
		return
	}
	log.Info().Dur("interval", r.Interval).Bool("locked", r.Rdb != nil).Msg("sweeper: started")
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sweeper: stopped")
			return
		case <-ticker.C:
			res, err := r.RunOnce(ctx)
			switch {
			case errors.Is(err, ErrLocked):
				log.Debug().Msg("sweeper: skipped, lock held elsewhere")
			case err != nil:
				log.Error().Err(err).AnErr("cause", errors.Unwrap(err)).Msg("sweeper: run failed")
			default:
				log.Debug().Int64("affected", res.AffectedRows).Msg("sweeper: run finished")
			}
		}
	}
}

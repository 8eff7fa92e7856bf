// server/internal/locker/locker.go
package locker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked means another request holds the lock for the same car.
var ErrLocked = errors.New("car is locked by another booking request")

// CarLocker serializes booking creation per car. Two concurrent requests for
// the same car could otherwise both pass the availability check before
// either booking is inserted; the SetNX lock closes that window.
type CarLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client) *CarLocker {
	return &CarLocker{client: client, ttl: 10 * time.Second}
}

// releaseScript deletes the key only when it still holds our token, so an
// expired lock re-acquired by someone else is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Acquire takes the per-car lock and returns a release func. The TTL bounds
// how long a crashed holder can block other requests.
func (l *CarLocker) Acquire(ctx context.Context, carID string) (release func(), err error) {
	key := "lock:car:" + carID
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}

	return func() {
		releaseScript.Run(context.Background(), l.client, []string{key}, token)
	}, nil
}

package storage

import (
	"context"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mailworks/quadplan/pkg/errors"
	"github.com/mailworks/quadplan/pkg/plan"
)

// defaultRedisPrefix namespaces project keys in a shared Redis instance.
const defaultRedisPrefix = "quadplan:project:"

// RedisStore persists snapshots as JSON values in Redis. Suitable when
// several serving instances share one project set.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store on an existing client. An empty prefix
// selects the default key namespace. The store takes ownership of the
// client and closes it in Close.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// DialRedis connects to a Redis URL (redis://...) and verifies the
// connection with a ping.
func DialRedis(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to redis")
	}
	return NewRedisStore(client, ""), nil
}

func (r *RedisStore) key(name string) string { return r.prefix + name }

// Load implements Store.
func (r *RedisStore) Load(ctx context.Context, name string) (plan.State, error) {
	if err := ValidateName(name); err != nil {
		return plan.State{}, err
	}
	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err == redis.Nil {
		return plan.State{}, ErrNotFound
	}
	if err != nil {
		return plan.State{}, errors.Wrap(errors.ErrCodeStorage, err, "load project %s", name)
	}
	return plan.Unmarshal(data)
}

// Save implements Store.
func (r *RedisStore) Save(ctx context.Context, name string, st plan.State) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := plan.Marshal(st)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(name), data, 0).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save project %s", name)
	}
	return nil
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	n, err := r.client.Del(ctx, r.key(name)).Result()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete project %s", name)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List implements Store.
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list projects")
	}
	slices.Sort(names)
	return names, nil
}

// Close implements Store.
func (r *RedisStore) Close() error { return r.client.Close() }

package gateways

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/go-redis/redis/v8"
	redisgo "github.com/gomodule/redigo/redis"
	"github.com/nitishm/go-rejson/v4"
)

// Application Constants
const (
	RedisDbPrefix    = "swapservice:"
	RedisStoragePath = "$"
)

// DB Keys
const (
	GasFeesDBKey = RedisDbPrefix + "gasfees:"
	InFlightKey  = RedisDbPrefix + "inflight:"
)

// How long an in-flight swap reservation survives before expiring on its own.
const InFlightTTL = 5 * time.Minute

// to connect to the redis database and return redis client, redis json handler and context.
func RedisClient(redisHost, redisPort string) (*redis.Client, *rejson.Handler, context.Context) {
	if redisHost == "" {
		log.Error("Error Reading Redis Host")
	}
	if redisPort == "" {
		log.Error("Error Reading Redis Port")
	}

	redisAddr := fmt.Sprintf("%s:%s", redisHost, redisPort)
	redisJson := rejson.NewReJSONHandler()
	op := &redis.Options{Addr: redisAddr, Password: "", WriteTimeout: 5 * time.Second}
	redisClient := redis.NewClient(op)

	ctx := context.Background()
	err := redisClient.Ping(ctx).Err()
	if err != nil {
		log.Error("Error Reading Redis Ping")
	}
	redisJson.SetGoRedisClient(redisClient)
	return redisClient, redisJson, ctx
}

// RedisStore wraps the client for JSON snapshot storage and swap guards.
type RedisStore struct {
	client *redis.Client
	json   *rejson.Handler
	ctx    context.Context
}

func NewRedisStore(redisHost, redisPort string) *RedisStore {
	client, handler, ctx := RedisClient(redisHost, redisPort)
	return &RedisStore{client: client, json: handler, ctx: ctx}
}

// Store the json data to the redis db by id and data.
func (r *RedisStore) JsonDataStorage(id string, data interface{}) (interface{}, error) {
	res, err := r.json.JSONSet(GasFeesDBKey+id, RedisStoragePath, data)
	return res, err
}

// Get the json data to the redis db by id.
func (r *RedisStore) JsonDataGet(id string) ([]byte, error) {
	res, err := r.json.JSONGet(GasFeesDBKey+id, RedisStoragePath)
	if err != nil {
		return nil, err
	}
	resBytes, errBytes := redisgo.Bytes(res, err)
	if errBytes != nil {
		return nil, errBytes
	}
	return resBytes, nil
}

// AcquireInFlight reserves the signer for one swap attempt. Returns false
// when an attempt is already pending for the address. The reservation
// expires on its own so a crashed attempt cannot wedge the signer forever.
func (r *RedisStore) AcquireInFlight(ctx context.Context, signerAddress string) (bool, error) {
	return r.client.SetNX(ctx, InFlightKey+signerAddress, "1", InFlightTTL).Result()
}

// ReleaseInFlight clears the signer reservation after the attempt reaches a
// terminal state.
func (r *RedisStore) ReleaseInFlight(ctx context.Context, signerAddress string) {
	if err := r.client.Del(ctx, InFlightKey+signerAddress).Err(); err != nil {
		log.Error("Error releasing in-flight guard for ", signerAddress, ": ", err)
	}
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

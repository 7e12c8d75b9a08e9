package redisClient

import "github.com/go-redis/redis"

// NewRedis connects and pings the server.
func NewRedis(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

package rdxtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeSatisfiesCmdable(t *testing.T) {
	var rdb redis.Cmdable = New()
	ctx := context.Background()

	require.NoError(t, rdb.Set(ctx, "k", "v", time.Minute).Err())
	v, err := rdb.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.Equal(t, time.Minute, rdb.(*Fake).ExpiryOf("k"))

	n, err := rdb.Del(ctx, "k", "missing").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.True(t, errors.Is(rdb.Get(ctx, "k").Err(), redis.Nil))
}

func TestFakeRecordsPublish(t *testing.T) {
	f := New()
	require.NoError(t, f.Publish(context.Background(), "c", []byte("hi")).Err())
	assert.Equal(t, []Message{{Channel: "c", Payload: "hi"}}, f.Messages())

	f.Err = errors.New("down")
	assert.Error(t, f.Publish(context.Background(), "c", "x").Err())
}

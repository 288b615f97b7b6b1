package cache

import (
	"context"
	"testing"
	"time"

	"nefllix/src/config"
	"nefllix/src/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

func TestJSONRoundTripAndTags(t *testing.T) {
	mr := testutil.SetupRedis(t)
	ctx := context.Background()

	SetJSON(ctx, "movie_list:1", "movie_list:cached_keys", payload{Name: "a"}, time.Minute)
	SetJSON(ctx, "movie_list:2", "movie_list:cached_keys", payload{Name: "b"}, time.Minute)

	var got payload
	require.True(t, GetJSON(ctx, "movie_list:1", &got))
	assert.Equal(t, "a", got.Name)

	members, err := mr.SMembers("movie_list:cached_keys")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"movie_list:1", "movie_list:2"}, members)

	InvalidateTags(ctx, "movie_list:cached_keys")
	assert.False(t, mr.Exists("movie_list:1"))
	assert.False(t, mr.Exists("movie_list:2"))
	assert.False(t, mr.Exists("movie_list:cached_keys"))
}

func TestTTLApplied(t *testing.T) {
	mr := testutil.SetupRedis(t)
	ctx := context.Background()

	SetJSON(ctx, "stats", "", payload{Name: "x"}, time.Hour)
	assert.Equal(t, time.Hour, mr.TTL("stats"))

	mr.FastForward(2 * time.Hour)
	var got payload
	assert.False(t, GetJSON(ctx, "stats", &got))
}

func TestUnreadableEntryIsDropped(t *testing.T) {
	mr := testutil.SetupRedis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("broken", "{not json"))

	var got payload
	assert.False(t, GetJSON(ctx, "broken", &got))
	assert.False(t, mr.Exists("broken"))
}

func TestBlobAndDelete(t *testing.T) {
	mr := testutil.SetupRedis(t)
	ctx := context.Background()

	SetBlob(ctx, "image_cache:a.svg", []byte("<svg/>"), "image/svg+xml", time.Minute)
	data, contentType, ok := GetBlob(ctx, "image_cache:a.svg")
	require.True(t, ok)
	assert.Equal(t, []byte("<svg/>"), data)
	assert.Equal(t, "image/svg+xml", contentType)
	assert.Equal(t, time.Minute, mr.TTL("image_cache:a.svg"))

	Delete(ctx, "image_cache:a.svg")
	_, _, ok = GetBlob(ctx, "image_cache:a.svg")
	assert.False(t, ok)
}

func TestRequestKeyKeepsFieldsApart(t *testing.T) {
	type listReq struct {
		Genre   string
		Keyword string
	}
	a := RequestKey("movie_list", listReq{Genre: "Drama", Keyword: "Heat:"})
	b := RequestKey("movie_list", listReq{Genre: "Drama:Heat"})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, RequestKey("movie_list", listReq{Genre: "Drama", Keyword: "Heat:"}))
	assert.Contains(t, a, "movie_list:")
}

func TestNoRedisIsNoop(t *testing.T) {
	prev := config.RDB
	config.RDB = nil
	t.Cleanup(func() { config.RDB = prev })
	ctx := context.Background()

	SetJSON(ctx, "k", "tag", payload{Name: "x"}, time.Minute)
	var got payload
	assert.False(t, GetJSON(ctx, "k", &got))
	_, _, ok := GetBlob(ctx, "k")
	assert.False(t, ok)
	InvalidateTags(ctx, "tag")
	Delete(ctx, "k")
}

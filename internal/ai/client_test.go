package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"unithub/internal/store"
)

// fakeCompletions 模拟 OpenAI 兼容的 /chat/completions
type fakeCompletions struct {
	calls   atomic.Int32
	status  int
	content string
	lastReq chatRequest
	auth    string
}

func (f *fakeCompletions) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		f.auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&f.lastReq)

		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 && f.status != http.StatusOK {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": f.content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, cache store.KV) *Client {
	t.Helper()
	return NewClient(Options{
		BaseURL:  srv.URL + "/v1/",
		APIKey:   "sk-test",
		Model:    "test-model",
		Timeout:  5 * time.Second,
		CacheTTL: time.Hour,
	}, cache, nil, zap.NewNop())
}

func TestCategorizeMaintenance(t *testing.T) {
	fake := &fakeCompletions{content: `{"category":"Plumbing","priority":"HIGH","reasoning":"Active leak"}`}
	c := newTestClient(t, fake.server(t), nil)

	got, err := c.CategorizeMaintenance(context.Background(), "Leak", "Water under the kitchen sink")
	require.NoError(t, err)
	assert.Equal(t, "plumbing", got.Category)
	assert.Equal(t, "high", got.Priority)

	assert.Equal(t, "Bearer sk-test", fake.auth)
	assert.Equal(t, "test-model", fake.lastReq.Model)
	require.Len(t, fake.lastReq.Messages, 2)
	assert.Contains(t, fake.lastReq.Messages[1].Content, "Water under the kitchen sink")
	require.NotNil(t, fake.lastReq.ResponseFormat)
	assert.Equal(t, "json_object", fake.lastReq.ResponseFormat.Type)
}

func TestCategorizeMaintenance_InvalidPriority(t *testing.T) {
	fake := &fakeCompletions{content: `{"category":"plumbing","priority":"whenever"}`}
	c := newTestClient(t, fake.server(t), nil)

	_, err := c.CategorizeMaintenance(context.Background(), "Leak", "Drip")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestExtractLeaseFields_CodeFence(t *testing.T) {
	fake := &fakeCompletions{content: "```json\n{\"tenantName\":\"Alice\",\"rentAmount\":1200}\n```"}
	c := newTestClient(t, fake.server(t), nil)

	got, err := c.ExtractLeaseFields(context.Background(), "This lease is made between ...")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got["tenantName"])
	assert.Equal(t, float64(1200), got["rentAmount"])
}

func TestMalformedAnswer(t *testing.T) {
	fake := &fakeCompletions{content: "Sure! Here is the data you asked for."}
	c := newTestClient(t, fake.server(t), nil)

	_, err := c.ExtractLeaseFields(context.Background(), "lease")
	assert.ErrorIs(t, err, ErrGeneration)

	fake.content = `{}`
	_, err = c.ExtractLeaseFields(context.Background(), "lease")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestAPIErrorIsNotRetried(t *testing.T) {
	fake := &fakeCompletions{status: http.StatusServiceUnavailable}
	c := newTestClient(t, fake.server(t), nil)

	_, err := c.GenerateRentReminder(context.Background(), ReminderInput{TenantName: "Bob", Amount: 1350.5, DueDate: "2024-03-01", DaysOverdue: 4})
	require.ErrorIs(t, err, ErrGeneration)
	assert.Contains(t, err.Error(), "model overloaded")
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestGenerateRentReminder_Prompt(t *testing.T) {
	fake := &fakeCompletions{content: `{"subject":"Rent overdue","message":"Hi Bob, your rent of $1350.50 is 4 days late."}`}
	c := newTestClient(t, fake.server(t), nil)

	got, err := c.GenerateRentReminder(context.Background(), ReminderInput{
		TenantName: "Bob", UnitNumber: "2B", Amount: 1350.5, DueDate: "2024-03-01", DaysOverdue: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Rent overdue", got.Subject)
	assert.Contains(t, fake.lastReq.Messages[1].Content, "Amount due: 1350.50")
	assert.Contains(t, fake.lastReq.Messages[1].Content, "Days overdue: 4")
}

func TestSuggestVendorTypes_Cached(t *testing.T) {
	mr := miniredis.RunT(t)
	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	fake := &fakeCompletions{content: `{"vendorTypes":["Plumber","Water damage restoration"],"notes":"Shut off the valve"}`}
	c := newTestClient(t, fake.server(t), kv)

	for i := 0; i < 2; i++ {
		got, err := c.SuggestVendorTypes(context.Background(), "plumbing", "Burst pipe")
		require.NoError(t, err)
		assert.Equal(t, []string{"Plumber", "Water damage restoration"}, got.VendorTypes)
	}
	assert.Equal(t, int32(1), fake.calls.Load())

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Regexp(t, `^ai:suggest_vendors:[0-9a-f]{32}$`, keys[0])
	assert.True(t, mr.TTL(keys[0]) > 0)
}

func TestRejectedCachedAnswerDoesNotLeakIntoFreshAnswer(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	fake := &fakeCompletions{content: `{"category":"electrical","priority":"high"}`}
	c := newTestClient(t, fake.server(t), kv)

	system := fmt.Sprintf(categorizePrompt, strings.Join(MaintenanceCategories, ", "))
	key := c.cacheKey(OpCategorizeMaintenance, system, "Title: Sparks\nDescription: Outlet sparks when used")
	require.NoError(t, kv.Set(ctx, key, `{"category":"plumbing","priority":"whenever","reasoning":"stale guess"}`, time.Hour))

	got, err := c.CategorizeMaintenance(ctx, "Sparks", "Outlet sparks when used")
	require.NoError(t, err)
	assert.Equal(t, "electrical", got.Category)
	assert.Equal(t, "high", got.Priority)
	assert.Empty(t, got.Reasoning)
	assert.Equal(t, int32(1), fake.calls.Load())

	cached, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"electrical","priority":"high"}`, cached)
}

func TestCacheFailureDoesNotFailCall(t *testing.T) {
	mr := miniredis.RunT(t)
	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	mr.Close()

	fake := &fakeCompletions{content: `{"vendorTypes":["Electrician"]}`}
	c := newTestClient(t, fake.server(t), kv)

	got, err := c.SuggestVendorTypes(context.Background(), "electrical", "Outlet sparks")
	require.NoError(t, err)
	assert.Equal(t, []string{"Electrician"}, got.VendorTypes)
}

func TestDisabled(t *testing.T) {
	var g Generator = Disabled{}
	_, err := g.CategorizeMaintenance(context.Background(), "t", "d")
	assert.ErrorIs(t, err, ErrGeneration)
	assert.ErrorIs(t, err, ErrDisabled)
}

package reconnection

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/srediag/plugin-reconnect/api"
)

type fakeSessionClient struct {
	mu            sync.Mutex
	online        bool
	checkErr      error
	checkPanic    interface{}
	checkGate     chan struct{}
	reconnectResp api.ReconnectResponse
	reconnectErr  error
	checks        int
	reconnects    int
}

func (f *fakeSessionClient) CheckOnline(ctx context.Context, appID string) (bool, error) {
	f.mu.Lock()
	f.checks++
	gate, p, online, err := f.checkGate, f.checkPanic, f.online, f.checkErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if p != nil {
		panic(p)
	}
	return online, err
}

func (f *fakeSessionClient) Reconnect(ctx context.Context, appID string) (api.ReconnectResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconnects++
	return f.reconnectResp, f.reconnectErr
}

func (f *fakeSessionClient) counts() (checks, reconnects int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks, f.reconnects
}

// fakeClock returns a fixed time. With block set, Sleep parks until stop is closed.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	block  bool
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Sleep(d time.Duration, stop <-chan struct{}) bool {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	block := c.block
	c.mu.Unlock()
	if block {
		<-stop
		return false
	}
	select {
	case <-stop:
		return false
	default:
		return true
	}
}

func (c *fakeClock) slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// count returns how many log lines carry exactly msg.
func (b *syncBuffer) count(msg string) int {
	return strings.Count(b.String(), internalLogger.name+" "+msg+reset)
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:2531/v2/api"
	cfg.Token = "tok"
	cfg.AppID = "wx_test"
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

type testEnv struct {
	sup    *Supervisor
	client *fakeSessionClient
	clock  *fakeClock
	logs   *syncBuffer
	reg    *prometheus.Registry
}

func newTestEnv(t *testing.T, cfg *Config, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{
		client: &fakeSessionClient{online: true},
		clock:  &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 5, 0, time.UTC), block: true},
		logs:   &syncBuffer{},
		reg:    prometheus.NewRegistry(),
	}
	if cfg == nil {
		cfg = testConfig()
	}
	all := append([]Option{
		WithSessionClient(env.client),
		WithClock(env.clock),
		WithLogOutput(env.logs),
		WithRegisterer(env.reg),
	}, opts...)
	sup, err := New(cfg, all...)
	require.NoError(t, err)
	env.sup = sup
	t.Cleanup(sup.Shutdown)
	return env
}

func prometheusToFloat64(c prometheus.Metric) float64 {
	m := &dto.Metric{}
	_ = c.Write(m)
	if m.GetCounter() != nil {
		return m.GetCounter().GetValue()
	}
	return m.GetGauge().GetValue()
}

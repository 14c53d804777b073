package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/bizcore/internal/adapters/cache"
	"github.com/SscSPs/bizcore/internal/adapters/database/memory"
	"github.com/SscSPs/bizcore/internal/clock"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/SscSPs/bizcore/internal/core/services"
	"github.com/SscSPs/bizcore/internal/observability/metrics"
	"github.com/SscSPs/bizcore/internal/platform/config"
	"github.com/SscSPs/bizcore/internal/platform/idgen"
	"github.com/SscSPs/bizcore/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_TagsComponentOnce(t *testing.T) {
	metrics.ResetEconomyMetricsForTest(prometheus.NewRegistry())

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	clk := clock.NewFakeClock(time.Date(2026, 4, 1, 6, 0, 0, 0, time.UTC))
	repos := memory.NewRepositoryProvider()
	reg := registry.New(repos.BusinessRepo, registry.WithClock(clk))
	svc := services.NewServiceContainer(reg, repos, services.ContainerConfig{
		Wallet:     memory.NewWallet(),
		Revenue:    services.RevenueConfig{Tracker: cache.NewMemoryCooldown()},
		SharedOpts: []services.ServiceOption{services.WithClock(clk)},
	})
	ids, err := idgen.NewSnowflake(1)
	require.NoError(t, err)

	cfg := &config.Config{SchedulerJobs: []string{scheduler.JobRollups}}
	sched, err := newScheduler(logger, cfg, clk, ids, svc)
	require.NoError(t, err)
	require.NoError(t, sched.RunOnce(context.Background()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, `"component"`), line)
	}
}

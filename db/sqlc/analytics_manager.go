package sqlc

import (
	"context"
	"time"

	"github.com/sqlc-dev/pqtype"
)

const QuerierCtxTimeout = time.Second * 10

// AnalyticsManager keeps per relay server counters. Every call is
// bounded by QuerierCtxTimeout on top of the caller's context.
type AnalyticsManager struct {
	queries Querier
}

func NewAnalyticsManager(queries Querier) *AnalyticsManager {
	return &AnalyticsManager{queries: queries}
}

func (a *AnalyticsManager) IncrementRoomsCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.AnalyticsIncrementRoomsCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementMatchesPairedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.AnalyticsIncrementMatchesPairedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetRoomsCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.AnalyticsGetRoomsCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetMatchesPairedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.AnalyticsGetMatchesPairedCount(ctx, serverIpNet)
}

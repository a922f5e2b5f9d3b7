package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/museumaceh/baservice/internal/domain"
)

const (
	statsCacheKey = "baservice:dashboard"
	statsCacheTTL = 60 // seconds
)

// CollectionCounter counts master records, optionally by condition.
type CollectionCounter interface {
	CountByCondition(ctx context.Context, condition string) (int64, error)
}

// TransferCounter counts transfers, optionally by type.
type TransferCounter interface {
	CountByType(ctx context.Context, transferType string) (int64, error)
}

// StaffCounter counts staff records.
type StaffCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Stats is the dashboard aggregate view.
type Stats struct {
	Collections            int64            `json:"collections"`
	CollectionsByCondition map[string]int64 `json:"collectionsByCondition"`
	Transfers              int64            `json:"transfers"`
	TransfersByType        map[string]int64 `json:"transfersByType"`
	Staff                  int64            `json:"staff"`
}

// DashboardService computes the landing-page counters. The counts are a
// handful of full-table aggregates, so they sit behind a short memcached TTL
// shared by all instances.
type DashboardService struct {
	collections CollectionCounter
	transfers   TransferCounter
	staff       StaffCounter
	mc          *memcache.Client
}

func NewDashboardService(
	collections CollectionCounter,
	transfers TransferCounter,
	staff StaffCounter,
	mc *memcache.Client,
) *DashboardService {
	return &DashboardService{
		collections: collections,
		transfers:   transfers,
		staff:       staff,
		mc:          mc,
	}
}

func (s *DashboardService) Stats(ctx context.Context) (Stats, error) {
	if s.mc != nil {
		if item, err := s.mc.Get(statsCacheKey); err == nil {
			var cached Stats
			if json.Unmarshal(item.Value, &cached) == nil {
				return cached, nil
			}
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return Stats{}, err
	}

	if s.mc != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.mc.Set(&memcache.Item{Key: statsCacheKey, Value: payload, Expiration: statsCacheTTL}); err != nil {
				slog.WarnContext(
					ctx, "Failed to cache dashboard stats",
					slog.String("error", err.Error()),
					slog.String("module", "dashboard"),
				)
			}
		}
	}
	return stats, nil
}

func (s *DashboardService) compute(ctx context.Context) (Stats, error) {
	stats := Stats{
		CollectionsByCondition: map[string]int64{},
		TransfersByType:        map[string]int64{},
	}

	total, err := s.collections.CountByCondition(ctx, "")
	if err != nil {
		return Stats{}, err
	}
	stats.Collections = total

	for _, cond := range domain.Conditions {
		n, err := s.collections.CountByCondition(ctx, cond)
		if err != nil {
			return Stats{}, err
		}
		stats.CollectionsByCondition[cond] = n
	}

	total, err = s.transfers.CountByType(ctx, "")
	if err != nil {
		return Stats{}, err
	}
	stats.Transfers = total

	for _, tt := range domain.TransferTypes {
		n, err := s.transfers.CountByType(ctx, tt)
		if err != nil {
			return Stats{}, err
		}
		stats.TransfersByType[tt] = n
	}

	staff, err := s.staff.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats.Staff = staff

	return stats, nil
}

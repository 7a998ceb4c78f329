// Package service implements the application commands. Every mutating
// command runs in one database transaction.
package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/erazemk/gotchan/internal/matchcache"
	"github.com/erazemk/gotchan/internal/store"
)

var tracer = otel.Tracer("github.com/erazemk/gotchan/internal/service")

// TrustPolicy sets how trade outcomes change trust scores. Zero disables
// an adjustment.
type TrustPolicy struct {
	// FinishReward is added to both participants when a trade finishes.
	FinishReward decimal.Decimal
	// CancelPenalty is taken from a participant who cancels a shipping trade.
	CancelPenalty decimal.Decimal
}

// DefaultTrustPolicy rewards and penalises by one point.
var DefaultTrustPolicy = TrustPolicy{
	FinishReward:  decimal.NewFromInt(1),
	CancelPenalty: decimal.NewFromInt(1),
}

// Service holds the dependencies shared by all commands.
type Service struct {
	DB      *sql.DB
	Matches matchcache.Cache
	Trust   TrustPolicy
}

// New returns a service. A nil cache disables match caching.
func New(db *sql.DB, matches matchcache.Cache, trust TrustPolicy) *Service {
	if matches == nil {
		matches = matchcache.Nop{}
	}
	return &Service{DB: db, Matches: matches, Trust: trust}
}

func (s *Service) tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return store.WithTx(ctx, s.DB, fn)
}

// invalidateMatches drops cached matches after items or trades changed.
// A failure only delays freshness until the entries expire.
func (s *Service) invalidateMatches(ctx context.Context) {
	if err := s.Matches.Invalidate(ctx); err != nil {
		slog.Warn("invalidating match cache", "error", err)
	}
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "service."+name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

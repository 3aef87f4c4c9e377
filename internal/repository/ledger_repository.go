package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
)

type ledgerRepository struct {
	client *redis.Client
}

// NewDeferralLedgerRepository backs the deferral ledger with redis
// counters, one per subject and calendar year.
func NewDeferralLedgerRepository(client *redis.Client) DeferralLedgerRepository {
	return &ledgerRepository{client: client}
}

func ledgerKey(subjectID string, year int) string {
	return fmt.Sprintf("deferrals:%s:%d", subjectID, year)
}

func (r *ledgerRepository) Get(ctx context.Context, subjectID string, year int, quota int) (domain.DeferralLedger, error) {
	ledger := domain.DeferralLedger{
		SubjectID: subjectID,
		Year:      year,
		Quota:     quota,
	}

	used, err := r.client.Get(ctx, ledgerKey(subjectID, year)).Int()
	if err != nil && err != redis.Nil {
		return ledger, err
	}

	ledger.Used = used
	return ledger, nil
}

func (r *ledgerRepository) Increment(ctx context.Context, subjectID string, year int) error {
	key := ledgerKey(subjectID, year)

	if err := r.client.Incr(ctx, key).Err(); err != nil {
		return err
	}

	// The counter is dead weight once its year is over; keep it one month
	// past year end for audits, then let it expire.
	expiry := time.Date(year+1, time.February, 1, 0, 0, 0, 0, time.UTC)
	return r.client.ExpireAt(ctx, key, expiry).Err()
}

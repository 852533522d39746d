package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/tienda-backend/pkg/logger"
	"github.com/angelmondragon/tienda-backend/pkg/metrics"
)

const (
	cartExpiryJobName      = "cart-expiry"
	defaultSweepBatchSize  = 500
	defaultMaxSweepBatches = 20
)

type cartSweeper interface {
	SweepExpired(ctx context.Context, now time.Time, limit int) (int64, error)
}

// CartExpiryJobParams configure the expired cart sweep.
type CartExpiryJobParams struct {
	Logger     *logger.Logger
	Sweeper    cartSweeper
	Metrics    *metrics.CronJobMetrics
	BatchSize  int
	MaxBatches int
}

type cartExpiryJob struct {
	logg       *logger.Logger
	sweeper    cartSweeper
	metrics    *metrics.CronJobMetrics
	batchSize  int
	maxBatches int
	now        func() time.Time
}

// NewCartExpiryJob builds the job that deletes carts past their expiry and
// returns their debited units to stock.
func NewCartExpiryJob(params CartExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sweeper == nil {
		return nil, fmt.Errorf("cart sweeper required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultSweepBatchSize
	}
	maxBatches := params.MaxBatches
	if maxBatches <= 0 {
		maxBatches = defaultMaxSweepBatches
	}
	return &cartExpiryJob{
		logg:       params.Logger,
		sweeper:    params.Sweeper,
		metrics:    params.Metrics,
		batchSize:  batch,
		maxBatches: maxBatches,
		now:        time.Now,
	}, nil
}

func (j *cartExpiryJob) Name() string { return cartExpiryJobName }

// Run sweeps in batches until a short batch shows the backlog is drained.
// Every batch commits on its own, so a failure keeps earlier progress.
func (j *cartExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var total int64
	defer func() {
		j.metrics.AddSwept(cartExpiryJobName, total)
	}()

	for batch := 0; batch < j.maxBatches; batch++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		deleted, err := j.sweeper.SweepExpired(ctx, now, j.batchSize)
		if err != nil {
			return fmt.Errorf("sweep expired carts: %w", err)
		}
		total += deleted
		if deleted < int64(j.batchSize) {
			break
		}
	}

	if total > 0 {
		ctx = j.logg.WithField(ctx, "deleted", total)
		j.logg.Info(ctx, "expired carts swept")
	}
	return nil
}

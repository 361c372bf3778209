package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/trigg3rX/keybrowser/pkg/logging"
)

// TotalSource estimates the number of keys in the deployment.
type TotalSource interface {
	Total(ctx context.Context) (*int64, error)
}

// TotalSampler periodically copies the keyspace estimate into KeyspaceTotal.
type TotalSampler struct {
	cron    *cron.Cron
	source  TotalSource
	logger  logging.Logger
	timeout time.Duration
}

func NewTotalSampler(source TotalSource, logger logging.Logger, timeout time.Duration) *TotalSampler {
	return &TotalSampler{
		cron:    cron.New(cron.WithSeconds()),
		source:  source,
		logger:  logger,
		timeout: timeout,
	}
}

// Start schedules Sample with a cron spec such as "@every 1m" or "0 */5 * * * *".
func (s *TotalSampler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.Sample); err != nil {
		return fmt.Errorf("invalid total sample schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Infof("Sampling keyspace total on schedule %q", schedule)
	return nil
}

// Stop waits for a running sample to finish.
func (s *TotalSampler) Stop() {
	<-s.cron.Stop().Done()
}

// Sample reads the estimate once. An unknown total is recorded as 0.
func (s *TotalSampler) Sample() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	total, err := s.source.Total(ctx)
	if err != nil {
		s.logger.Warnf("Failed to sample keyspace total: %v", err)
		return
	}
	if total == nil {
		KeyspaceTotal.Set(0)
		return
	}
	KeyspaceTotal.Set(float64(*total))
}

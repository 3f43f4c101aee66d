package metrics

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Collector samples connection pool gauges on an interval.
type Collector struct {
	db       *gorm.DB
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewCollector(db *gorm.DB, interval time.Duration) *Collector {
	return &Collector{db: db, interval: interval, done: make(chan struct{})}
}

func (c *Collector) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	go c.collect(ctx)
}

func (c *Collector) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

func (c *Collector) collect(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	_ = UpdateDatabaseConnections(c.db)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = UpdateDatabaseConnections(c.db)
		}
	}
}

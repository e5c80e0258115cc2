package services

import (
	"context"
	"time"

	"github.com/anjiri1684/quiz_platform/events"
	"github.com/anjiri1684/quiz_platform/models"
	"github.com/anjiri1684/quiz_platform/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const DefaultTimeout = 10 * time.Second

var validate = validator.New()

// Principal is the already-authenticated caller of an operation.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) IsStaff() bool {
	return models.IsStaff(p.Role)
}

// Options carries what every service shares.
type Options struct {
	Timeout   time.Duration
	Publisher events.Publisher
	Clock     func() time.Time
	// Location buckets daily series; UTC when nil.
	Location *time.Location
}

type base struct {
	timeout   time.Duration
	publisher events.Publisher
	clock     func() time.Time
	loc       *time.Location
}

func newBase(opts Options) base {
	b := base{timeout: opts.Timeout, publisher: opts.Publisher, clock: opts.Clock, loc: opts.Location}
	if b.timeout <= 0 {
		b.timeout = DefaultTimeout
	}
	if b.publisher == nil {
		b.publisher = events.Noop{}
	}
	if b.clock == nil {
		b.clock = func() time.Time { return time.Now().UTC() }
	}
	if b.loc == nil {
		b.loc = time.UTC
	}
	return b
}

func (b base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

func (b base) now() time.Time {
	return b.clock()
}

// emit publishes on a detached context so a slow broker never fails a request.
func (b base) emit(routingKey string, payload any) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	_ = b.publisher.Publish(ctx, routingKey, payload)
}

// Page is a slice of results with its paging position.
type Page[T any] struct {
	Data     []T   `json:"data"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	LastPage int   `json:"last_page"`
}

func newPage[T any](data []T, total int64, page, limit int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Total: total, Page: page, LastPage: utils.LastPage(total, limit)}
}

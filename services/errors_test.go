package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/anjiri1684/quiz_platform/database"
)

func TestErrorMatchesByKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", notFound("attempt %d not found", 7))

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected errors.Is(err, ErrNotFound)")
	}
	if errors.Is(err, ErrValidation) {
		t.Errorf("not-found error must not match ErrValidation")
	}
	var se *Error
	if !errors.As(err, &se) || se.Kind != KindNotFound || se.Error() != "attempt 7 not found" {
		t.Errorf("unexpected error: %#v", se)
	}
	if ErrTimeout.Error() != "timeout" {
		t.Errorf("sentinel message = %q", ErrTimeout.Error())
	}
}

func TestStoreError(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-expired.Done()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want error
	}{
		{"nil", context.Background(), nil, nil},
		{"missing row", context.Background(), database.ErrNotFound, ErrNotFound},
		{"deadline", context.Background(), fmt.Errorf("query: %w", context.DeadlineExceeded), ErrTimeout},
		{"expired context", expired, errors.New("driver: bad connection"), ErrTimeout},
		{"driver failure", context.Background(), errors.New("driver: bad connection"), ErrUpstream},
		{"already classified", context.Background(), invalid("bad"), ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storeError(tt.ctx, "load attempt", "attempt", tt.err)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("storeError() = %v, want kind %v", got, tt.want)
			}
		})
	}
}

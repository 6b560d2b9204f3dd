package source

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/dshills/tagstorm/internal/suggest"
)

// Throttled limits how often another source is queried. A query waits for
// a token; if its context ends first the wait is abandoned and the
// context's error is returned.
type Throttled struct {
	next suggest.Source
	lim  *rate.Limiter
}

// NewThrottled allows perSecond queries per second with the given burst.
func NewThrottled(next suggest.Source, perSecond float64, burst int) *Throttled {
	return &Throttled{
		next: next,
		lim:  rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Suggest implements suggest.Source.
func (t *Throttled) Suggest(ctx context.Context, query string) (suggest.Result, error) {
	if err := t.lim.Wait(ctx); err != nil {
		return suggest.Result{}, fmt.Errorf("throttled: %w", err)
	}
	return t.next.Suggest(ctx, query)
}

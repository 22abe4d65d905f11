package search

import (
	"context"
	"fmt"
	"time"
)

// Provider is the indexer a result came from. It knows how to read size and
// publish date out of the raw feed item it produced.
type Provider interface {
	Name() string
	ItemSize(ctx context.Context, item any) (int64, error)
	ItemPublishDate(ctx context.Context, item any) (*time.Time, error)
}

func providerName(p Provider) string {
	if p == nil {
		return ""
	}
	return p.Name()
}

// Finish fills in size and publish date from the result's raw item.
// Provider errors are returned wrapped.
func (r *Result) Finish(ctx context.Context, p Provider) error {
	size, err := p.ItemSize(ctx, r.Item)
	if err != nil {
		return fmt.Errorf("compute size from %s: %w", providerName(p), err)
	}
	r.SetSize(size)

	pub, err := p.ItemPublishDate(ctx, r.Item)
	if err != nil {
		return fmt.Errorf("compute publish date from %s: %w", providerName(p), err)
	}
	r.PubDate = pub
	return nil
}

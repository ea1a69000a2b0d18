package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"kboard/internal/service"
)

// Cards caches cards across every list fetched so far.
type Cards struct {
	*tracker

	svc   service.Service
	log   *zap.Logger
	mu    sync.RWMutex
	items []service.Card
	stale bool
}

// NewCards creates an empty card cache backed by svc.
func NewCards(svc service.Service, log *zap.Logger) *Cards {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cards{tracker: newTracker("cards", log), svc: svc, log: log}
}

// All returns a copy of the cached cards in cache order.
func (c *Cards) All() []service.Card {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]service.Card(nil), c.items...)
}

// ForList returns the cached cards of one list ordered by position.
func (c *Cards) ForList(listID string) []service.Card {
	c.mu.RLock()
	var out []service.Card
	for _, it := range c.items {
		if it.ListID == listID {
			out = append(out, it)
		}
	}
	c.mu.RUnlock()
	sortCards(out)
	return out
}

// Get returns the cached card with id.
func (c *Cards) Get(id string) (service.Card, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return service.Card{}, false
}

// Stale reports whether a rejected reorder left the cache out of step with
// the backend.
func (c *Cards) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

// Fetch merges the cards of one list into the cache. Cached cards whose
// identity is in the fetched set are replaced; cards of other lists stay.
func (c *Cards) Fetch(ctx context.Context, listID string) error {
	return c.run(ctx, "fetch", "Failed to fetch cards", func(ctx context.Context) error {
		cards, err := c.svc.ListCards(ctx, listID)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.items = mergeByID(c.items, cards, cardID)
		total := len(c.items)
		c.mu.Unlock()
		c.log.Debug("merged cards",
			zap.String("list", listID),
			zap.Int("fetched", len(cards)),
			zap.Int("cached", total))
		return nil
	})
}

// Create creates a card and appends it to the cache.
func (c *Cards) Create(ctx context.Context, in service.CardInput) (service.Card, error) {
	var card service.Card
	err := c.run(ctx, "create", "Failed to create card", func(ctx context.Context) error {
		var err error
		card, err = c.svc.CreateCard(ctx, in)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.items = appendUnique(c.items, card, cardID)
		c.mu.Unlock()
		return nil
	})
	return card, err
}

// Update updates a card and replaces it in place.
func (c *Cards) Update(ctx context.Context, id string, in service.CardInput) (service.Card, error) {
	var card service.Card
	err := c.run(ctx, "update", "Failed to update card", func(ctx context.Context) error {
		var err error
		card, err = c.svc.UpdateCard(ctx, id, in)
		if err != nil {
			return err
		}
		c.mu.Lock()
		replaceByID(c.items, card, cardID)
		c.mu.Unlock()
		return nil
	})
	return card, err
}

// Delete deletes a card and removes it from the cache.
func (c *Cards) Delete(ctx context.Context, id string) error {
	return c.run(ctx, "delete", "Failed to delete card", func(ctx context.Context) error {
		if err := c.svc.DeleteCard(ctx, id); err != nil {
			return err
		}
		c.mu.Lock()
		c.items = removeByID(c.items, id, cardID)
		c.mu.Unlock()
		return nil
	})
}

// Reorder applies a drag result: every card of dest gets the destination
// list and position index × 1000 immediately, then the destination order is
// persisted. source is the source list after the move; its positions are not
// persisted. A rejection keeps the local positions and marks the cache stale.
func (c *Cards) Reorder(ctx context.Context, sourceListID, destListID string, source, dest []service.Card) error {
	dest = uniqueByID(dest, cardID)
	ids := make([]string, len(dest))
	for i, card := range dest {
		ids[i] = card.ID
	}

	c.mu.Lock()
	c.items = Renumber(c.items, destListID, dest)
	c.mu.Unlock()
	c.log.Debug("reordered cards",
		zap.String("source", sourceListID),
		zap.String("destination", destListID),
		zap.Int("source_cards", len(source)),
		zap.Strings("destination_cards", ids))

	return c.run(ctx, "reorder", "Failed to reorder cards", func(ctx context.Context) error {
		err := c.svc.ReorderCards(ctx, service.CardOrder{
			SourceListID:      sourceListID,
			DestinationListID: destListID,
			Cards:             ids,
		})
		if err != nil {
			c.mu.Lock()
			c.stale = true
			c.mu.Unlock()
		}
		return err
	})
}

// Reset drops every cached card and clears the stale flag.
func (c *Cards) Reset() {
	c.mu.Lock()
	c.items = nil
	c.stale = false
	c.mu.Unlock()
}

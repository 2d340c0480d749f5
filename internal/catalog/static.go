package catalog

import (
	"context"

	"github.com/pkg/errors"

	"github.com/KyleGowen/excelsior-sub008/deckrules"
)

// Static serves a fixed in-memory catalog.
type Static struct {
	catalog *deckrules.Catalog
}

// NewStatic returns a source backed by the given catalog.
func NewStatic(catalog *deckrules.Catalog) *Static {
	if catalog == nil {
		catalog = deckrules.NewCatalog()
	}
	return &Static{catalog: catalog}
}

// GetCard returns a single card.
func (s *Static) GetCard(ctx context.Context, id string) (deckrules.Card, error) {
	card, ok := s.catalog.Lookup(id)
	if !ok {
		return deckrules.Card{}, errors.Wrapf(ErrCardNotFound, "%q", id)
	}
	return card, nil
}

// Catalog returns the catalog snapshot.
func (s *Static) Catalog(ctx context.Context) (*deckrules.Catalog, error) {
	return s.catalog, nil
}

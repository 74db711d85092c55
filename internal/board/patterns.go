package board

import (
	"context"
	"fmt"
	"slices"

	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/patterns"
	"github.com/fitz/taskflow/internal/store"
)

// SetPatterns replaces the domain patterns after normalizing them.
func (b *Board) SetPatterns(ctx context.Context, ps []models.DomainPattern) ([]models.DomainPattern, error) {
	normalized, err := patterns.NormalizeAll(ps)
	if err != nil {
		return nil, err
	}

	if err := b.lockFresh(ctx); err != nil {
		return nil, err
	}
	defer b.mu.Unlock()
	if err := b.commitPatterns(ctx, normalized); err != nil {
		return nil, err
	}
	return slices.Clone(normalized), nil
}

// UpsertPattern adds a pattern or replaces the one with the same id.
func (b *Board) UpsertPattern(ctx context.Context, p models.DomainPattern) (models.DomainPattern, error) {
	p, err := patterns.Normalize(p)
	if err != nil {
		return models.DomainPattern{}, err
	}

	if err := b.lockFresh(ctx); err != nil {
		return models.DomainPattern{}, err
	}
	defer b.mu.Unlock()

	next := slices.Clone(b.patterns)
	if i := slices.IndexFunc(next, func(q models.DomainPattern) bool { return q.ID == p.ID }); i >= 0 {
		next[i] = p
	} else {
		next = append(next, p)
	}
	if err := b.commitPatterns(ctx, next); err != nil {
		return models.DomainPattern{}, err
	}
	return p, nil
}

// DeletePattern removes the pattern with the given id.
func (b *Board) DeletePattern(ctx context.Context, id string) error {
	if err := b.lockFresh(ctx); err != nil {
		return err
	}
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.patterns, func(p models.DomainPattern) bool { return p.ID == id })
	if i < 0 {
		return fmt.Errorf("pattern %q not found", id)
	}
	return b.commitPatterns(ctx, slices.Delete(slices.Clone(b.patterns), i, i+1))
}

// ResetPatterns restores the built-in domain patterns.
func (b *Board) ResetPatterns(ctx context.Context) ([]models.DomainPattern, error) {
	if err := b.lockFresh(ctx); err != nil {
		return nil, err
	}
	defer b.mu.Unlock()

	defaults := models.DefaultDomainPatterns()
	if err := b.commitPatterns(ctx, defaults); err != nil {
		return nil, err
	}
	return slices.Clone(defaults), nil
}

func (b *Board) commitPatterns(ctx context.Context, next []models.DomainPattern) error {
	if err := persist(ctx, b, store.KeyPatterns, next); err != nil {
		return fmt.Errorf("failed to save patterns: %w", err)
	}
	b.patterns = next
	return nil
}

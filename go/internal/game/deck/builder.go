package deck

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mcdev12/memorymatch/go/internal/catalog"
	"github.com/mcdev12/memorymatch/go/internal/models"
)

const (
	minProbes         = 32
	probesPerPair     = 4
	defaultPreloadMax = 8
)

// Builder turns a catalog into a shuffled deck of verified pairs.
type Builder struct {
	images catalog.ImageChecker

	// maxProbes bounds availability checks per build. Zero means derive from pair count.
	maxProbes       int
	preloadParallel int

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Builder)

// WithRand fixes the random source, for reproducible decks.
func WithRand(rng *rand.Rand) Option {
	return func(b *Builder) { b.rng = rng }
}

// WithMaxProbes bounds how many catalog items one build may probe.
func WithMaxProbes(n int) Option {
	return func(b *Builder) { b.maxProbes = n }
}

// WithPreloadParallelism caps concurrent image preloads.
func WithPreloadParallelism(n int) Option {
	return func(b *Builder) { b.preloadParallel = n }
}

func NewBuilder(images catalog.ImageChecker, opts ...Option) *Builder {
	b := &Builder{
		images:          images,
		preloadParallel: defaultPreloadMax,
		rng:             rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build selects pairCount distinct reachable items, preloads their artwork and
// returns them as a shuffled deck of 2*pairCount cards.
func (b *Builder) Build(ctx context.Context, items []models.CatalogItem, pairCount int) (models.Deck, error) {
	if pairCount <= 0 {
		return nil, fmt.Errorf("pair count must be positive, got %d", pairCount)
	}
	if len(items) < pairCount {
		return nil, &InsufficientContentError{Wanted: pairCount, Found: 0, Probed: 0}
	}

	selected, err := b.selectItems(ctx, items, pairCount)
	if err != nil {
		return nil, err
	}

	if err := b.preload(ctx, selected); err != nil {
		return nil, err
	}

	cards := make(models.Deck, 0, 2*len(selected))
	for _, item := range selected {
		card := models.CardRef{PairKey: item.ID, Name: item.Name, ImageURL: item.ImageURL}
		cards = append(cards, card, card)
	}

	b.mu.Lock()
	b.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	b.mu.Unlock()

	for i := range cards {
		cards[i].Position = i
	}
	return cards, nil
}

// selectItems draws catalog indices uniformly without replacement and keeps the
// reachable ones until pairCount are found or the probe budget runs out.
func (b *Builder) selectItems(ctx context.Context, items []models.CatalogItem, pairCount int) ([]models.CatalogItem, error) {
	budget := b.probeBudget(len(items), pairCount)

	// indices[:drawn] holds the indices already drawn, a partial Fisher-Yates.
	indices := make([]int, len(items))
	for i := range indices {
		indices[i] = i
	}

	selected := make([]models.CatalogItem, 0, pairCount)
	probed := 0
	for len(selected) < pairCount && probed < budget {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		b.mu.Lock()
		j := probed + b.rng.IntN(len(indices)-probed)
		b.mu.Unlock()
		indices[probed], indices[j] = indices[j], indices[probed]
		item := items[indices[probed]]
		probed++

		if !b.images.ImageReachable(ctx, item.ImageURL) {
			log.Debug().Str("item_id", item.ID).Msg("image unreachable, resampling")
			continue
		}
		selected = append(selected, item)
	}

	if len(selected) < pairCount {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, &InsufficientContentError{Wanted: pairCount, Found: len(selected), Probed: probed}
	}

	log.Debug().
		Int("pairs", pairCount).
		Int("probed", probed).
		Msg("deck items selected")
	return selected, nil
}

func (b *Builder) probeBudget(catalogSize, pairCount int) int {
	budget := b.maxProbes
	if budget <= 0 {
		budget = max(probesPerPair*pairCount, minProbes)
	}
	return min(budget, catalogSize)
}

func (b *Builder) preload(ctx context.Context, selected []models.CatalogItem) error {
	g, gctx := errgroup.WithContext(ctx)
	if b.preloadParallel > 0 {
		g.SetLimit(b.preloadParallel)
	}

	for _, item := range selected {
		g.Go(func() error {
			if err := b.images.PreloadImage(gctx, item.ImageURL); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrPreloadFailed, item.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

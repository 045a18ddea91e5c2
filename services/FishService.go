package services

import (
	"context"
	"strings"

	"aquashop/assets"
	"aquashop/entities"
	"aquashop/models"
	"aquashop/pricing"
	"aquashop/repository"
	"aquashop/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const maxCompare = 4

type FishService struct {
	fr     repository.FishRepository
	images *assets.Resolver
}

func NewFishService(fishRepo repository.FishRepository, images *assets.Resolver) FishService {
	if images == nil {
		images = assets.NewResolver("", nil)
	}
	return FishService{
		fr:     fishRepo,
		images: images,
	}
}

// View decorates f with its effective price, savings and image.
func (fs *FishService) View(f models.Fish) entities.Fish {
	f.Image = fs.images.ImageFor(f)
	return entities.Fish{
		Fish:           f,
		EffectivePrice: pricing.EffectivePrice(f),
		Savings:        pricing.Savings(f),
	}
}

func (fs *FishService) ListFishes(ctx context.Context, category string) (fishes []entities.Fish, err error) {
	ctx, span := tracing.AddSpan(ctx, "FishService.ListFishes", attribute.String("category", category))
	defer span.End()

	list, e := fs.fr.ListFishes(ctx, strings.TrimSpace(category))
	if e != nil {
		tracing.RecordError(span, e)
		err = e
		return
	}
	fishes = make([]entities.Fish, 0, len(list))
	for _, f := range list {
		fishes = append(fishes, fs.View(f))
	}
	return
}

// GetFish returns the raw catalog record.
func (fs *FishService) GetFish(ctx context.Context, id string) (fish models.Fish, err error) {
	var exists bool
	fish, exists, err = fs.fr.GetFishById(ctx, id)
	if err != nil {
		return
	}
	if !exists {
		err = models.ErrNotFoundError
	}
	return
}

func (fs *FishService) GetFishView(ctx context.Context, id string) (fish entities.Fish, err error) {
	ctx, span := tracing.AddSpan(ctx, "FishService.GetFish", attribute.String("fish_id", id))
	defer span.End()

	f, e := fs.GetFish(ctx, id)
	if e != nil {
		tracing.RecordError(span, e)
		err = e
		return
	}
	fish = fs.View(f)
	return
}

func (fs *FishService) ListCategories(ctx context.Context) (cats []string, err error) {
	cats, err = fs.fr.ListCategories(ctx)
	return
}

func (fs *FishService) CreateFish(ctx context.Context, f models.Fish) (fish entities.Fish, err error) {
	err = fs.fr.CreateFish(ctx, f)
	if err != nil {
		return
	}
	fish = fs.View(f)
	return
}

// UpdateFish replaces the record stored under id. The id in the path wins
// over one in the body.
func (fs *FishService) UpdateFish(ctx context.Context, id string, f models.Fish) (fish entities.Fish, err error) {
	if f.Id != "" && f.Id != id {
		zap.L().Warn("UpdateFish: id mismatch", zap.String("path_id", id), zap.String("body_id", f.Id))
		err = models.ErrBadRequest
		return
	}
	f.Id = id
	err = fs.fr.UpdateFish(ctx, f)
	if err != nil {
		return
	}
	fish = fs.View(f)
	return
}

func (fs *FishService) DeleteFish(ctx context.Context, id string) (err error) {
	err = fs.fr.DeleteFish(ctx, id)
	return
}

// Compare returns the requested fishes in the given order, skipping blanks
// and duplicates. Every id must exist.
func (fs *FishService) Compare(ctx context.Context, ids []string) (rows []entities.CompareRow, err error) {
	seen := map[string]bool{}
	uniq := []string{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		uniq = append(uniq, id)
	}
	if len(uniq) < 2 || len(uniq) > maxCompare {
		zap.L().Info("Compare: wrong number of fishes", zap.Int("count", len(uniq)))
		err = models.ErrBadRequest
		return
	}
	rows = make([]entities.CompareRow, 0, len(uniq))
	best := -1
	for i, id := range uniq {
		f, e := fs.GetFish(ctx, id)
		if e != nil {
			err = e
			return
		}
		row := entities.CompareRow{Fish: fs.View(f)}
		if best < 0 || row.EffectivePrice.LessThan(rows[best].EffectivePrice) {
			best = i
		}
		rows = append(rows, row)
	}
	for i := range rows {
		rows[i].BestPrice = rows[i].EffectivePrice.Equal(rows[best].EffectivePrice)
	}
	return
}

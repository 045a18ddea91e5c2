package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"aquashop/models"
	"aquashop/repository"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the fish catalog from a YAML file",
	Long: `Upsert every fish listed in a YAML file into the catalog.

Existing fishes with the same id are replaced, others are left alone.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed/fishes.yaml", "catalog file")
}

// seedFish mirrors models.Fish with YAML-friendly money fields.
type seedFish struct {
	Id            string      `yaml:"id"`
	Name          string      `yaml:"name"`
	Price         string      `yaml:"price"`
	PriceUnit     string      `yaml:"priceUnit"`
	OriginalPrice string      `yaml:"originalPrice"`
	Discount      string      `yaml:"discount"`
	DiscountPrice string      `yaml:"discountPrice"`
	Availability  string      `yaml:"availability"`
	Category      string      `yaml:"category"`
	Description   string      `yaml:"description"`
	Image         string      `yaml:"image"`
	Care          models.Care `yaml:"care"`
}

func (s seedFish) toModel() (models.Fish, error) {
	f := models.Fish{
		Id:           s.Id,
		Name:         s.Name,
		PriceUnit:    models.PriceUnit(s.PriceUnit),
		Availability: models.Availability(s.Availability),
		Category:     s.Category,
		Description:  s.Description,
		Image:        s.Image,
		Care:         s.Care,
	}
	if f.PriceUnit == "" {
		f.PriceUnit = models.PerPiece
	}
	if f.Availability == "" {
		f.Availability = models.InStock
	}
	var err error
	if f.Price, err = decimal.NewFromString(s.Price); err != nil {
		return f, fmt.Errorf("fish %s: price: %w", s.Id, err)
	}
	for _, opt := range []struct {
		raw string
		dst *decimal.NullDecimal
	}{
		{s.OriginalPrice, &f.OriginalPrice},
		{s.Discount, &f.Discount},
		{s.DiscountPrice, &f.DiscountPrice},
	} {
		if opt.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(opt.raw)
		if err != nil {
			return f, fmt.Errorf("fish %s: %w", s.Id, err)
		}
		*opt.dst = decimal.NewNullDecimal(d)
	}
	return f, nil
}

// readSeed decodes a YAML list of fishes.
func readSeed(r io.Reader) ([]models.Fish, error) {
	var raw []seedFish
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	fishes := make([]models.Fish, 0, len(raw))
	for _, s := range raw {
		f, err := s.toModel()
		if err != nil {
			return nil, err
		}
		fishes = append(fishes, f)
	}
	return fishes, nil
}

func seedCatalog(ctx context.Context, repo repository.FishRepository, fishes []models.Fish, log *zap.Logger) error {
	for _, f := range fishes {
		if err := repo.UpsertFish(ctx, f); err != nil {
			return fmt.Errorf("fish %s: %w", f.Id, err)
		}
		log.Debug("seeded", zap.String("fish_id", f.Id))
	}
	log.Info("catalog seeded", zap.Int("fishes", len(fishes)))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	file, err := os.Open(seedFile)
	if err != nil {
		return err
	}
	defer file.Close()
	fishes, err := readSeed(file)
	if err != nil {
		return fmt.Errorf("%s: %w", seedFile, err)
	}

	db, err := openDB(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	repo, err := repository.NewFishRepository(db)
	if err != nil {
		return err
	}
	return seedCatalog(cmd.Context(), repo, fishes, log)
}

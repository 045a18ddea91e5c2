package repository

import (
	"context"
	"database/sql"
	"errors"
	"unicode"

	"aquashop/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type FishRepository interface {
	GetFishById(ctx context.Context, id string) (fish models.Fish, exists bool, err error)
	ListFishes(ctx context.Context, category string) (fishes []models.Fish, err error)
	ListCategories(ctx context.Context) (cats []string, err error)
	CreateFish(ctx context.Context, fish models.Fish) (err error)
	UpdateFish(ctx context.Context, fish models.Fish) (err error)
	UpsertFish(ctx context.Context, fish models.Fish) (err error)
	DeleteFish(ctx context.Context, id string) (err error)
}

type FishRepo struct {
	db *sql.DB
}

func NewFishRepository(conn *sql.DB) (FishRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &FishRepo{
		db: conn,
	}, nil
}

const fishColumns = "id, name, price, price_unit, original_price, discount, discount_price, availability, category, description, image, care"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFish(row rowScanner) (f models.Fish, err error) {
	var unit, avail string
	err = row.Scan(&f.Id, &f.Name, &f.Price, &unit, &f.OriginalPrice, &f.Discount,
		&f.DiscountPrice, &avail, &f.Category, &f.Description, &f.Image, &f.Care)
	f.PriceUnit = models.PriceUnit(unit)
	f.Availability = models.Availability(avail)
	return
}

func (r *FishRepo) GetFishById(ctx context.Context, id string) (fish models.Fish, exists bool, err error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+fishColumns+" FROM fishes WHERE id = $1", id)
	fish, err = scanFish(row)
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		} else {
			zap.L().Error("GetFishById", zap.Error(err))
			err = models.ErrServerError
		}
		return
	}
	exists = true
	return
}

func (r *FishRepo) ListFishes(ctx context.Context, category string) (fishes []models.Fish, err error) {
	var rows *sql.Rows
	if category == "" {
		rows, err = r.db.QueryContext(ctx, "SELECT "+fishColumns+" FROM fishes ORDER BY name, id")
	} else {
		rows, err = r.db.QueryContext(ctx, "SELECT "+fishColumns+" FROM fishes WHERE category = $1 ORDER BY name, id", category)
	}
	if err != nil {
		zap.L().Error("ListFishes[1]", zap.Error(err))
		err = models.ErrServerError
		return
	}
	defer rows.Close()
	fishes = []models.Fish{}
	for rows.Next() {
		var f models.Fish
		f, err = scanFish(rows)
		if err != nil {
			zap.L().Error("ListFishes[2]", zap.Error(err))
			err = models.ErrServerError
			return
		}
		fishes = append(fishes, f)
	}
	if err = rows.Err(); err != nil {
		zap.L().Error("ListFishes[3]", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (r *FishRepo) ListCategories(ctx context.Context) (cats []string, err error) {
	rows, e := r.db.QueryContext(ctx, "SELECT DISTINCT category FROM fishes WHERE category <> '' ORDER BY category")
	if e != nil {
		zap.L().Error("ListCategories[1]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	defer rows.Close()
	cats = []string{}
	for rows.Next() {
		var c string
		if err = rows.Scan(&c); err != nil {
			zap.L().Error("ListCategories[2]", zap.Error(err))
			err = models.ErrServerError
			return
		}
		cats = append(cats, c)
	}
	if err = rows.Err(); err != nil {
		zap.L().Error("ListCategories[3]", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (r *FishRepo) CreateFish(ctx context.Context, f models.Fish) (err error) {
	if err = ValidateFish(f); err != nil {
		return
	}
	_, exists, e := r.GetFishById(ctx, f.Id)
	if e != nil {
		err = e
		return
	}
	if exists {
		zap.L().Warn("CreateFish: fish already exists", zap.String("fish_id", f.Id))
		err = models.ErrNotAllowed
		return
	}
	_, e = r.db.ExecContext(ctx, "INSERT INTO fishes ("+fishColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)",
		fishArgs(f)...)
	if e != nil {
		zap.L().Error("CreateFish", zap.Error(e))
		err = models.ErrServerError
	}
	return
}

func (r *FishRepo) UpdateFish(ctx context.Context, f models.Fish) (err error) {
	if err = ValidateFish(f); err != nil {
		return
	}
	args := append(fishArgs(f)[1:], f.Id)
	res, e := r.db.ExecContext(ctx, `UPDATE fishes SET name = $1, price = $2, price_unit = $3, original_price = $4,
		discount = $5, discount_price = $6, availability = $7, category = $8, description = $9, image = $10, care = $11
		WHERE id = $12`, args...)
	if e != nil {
		zap.L().Error("UpdateFish", zap.Error(e))
		err = models.ErrServerError
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		err = models.ErrNotFoundError
	}
	return
}

func (r *FishRepo) UpsertFish(ctx context.Context, f models.Fish) (err error) {
	if err = ValidateFish(f); err != nil {
		return
	}
	_, e := r.db.ExecContext(ctx, "INSERT INTO fishes ("+fishColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, price = excluded.price, price_unit = excluded.price_unit,
		original_price = excluded.original_price, discount = excluded.discount, discount_price = excluded.discount_price,
		availability = excluded.availability, category = excluded.category, description = excluded.description,
		image = excluded.image, care = excluded.care`, fishArgs(f)...)
	if e != nil {
		zap.L().Error("UpsertFish", zap.Error(e))
		err = models.ErrServerError
	}
	return
}

func (r *FishRepo) DeleteFish(ctx context.Context, id string) (err error) {
	res, e := r.db.ExecContext(ctx, "DELETE FROM fishes WHERE id = $1", id)
	if e != nil {
		zap.L().Error("DeleteFish", zap.Error(e))
		err = models.ErrServerError
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		err = models.ErrNotFoundError
	}
	return
}

func fishArgs(f models.Fish) []any {
	return []any{f.Id, f.Name, f.Price, string(f.PriceUnit), f.OriginalPrice, f.Discount,
		f.DiscountPrice, string(f.Availability), f.Category, f.Description, f.Image, f.Care}
}

var hundred = decimal.NewFromInt(100)

// ValidateFish checks a catalog record before it is written.
func ValidateFish(f models.Fish) (err error) {
	switch {
	case f.Id == "" || !isValidString(f.Id):
		zap.L().Warn("id field is invalid")
		err = models.ErrNotAllowed
	case !isValidLen(f.Name, 2, 80) || !isValidString(f.Name):
		zap.L().Warn("name field is invalid")
		err = models.ErrNotAllowed
	case f.Price.IsNegative():
		zap.L().Warn("price field is invalid")
		err = models.ErrNotAllowed
	case !f.PriceUnit.Valid():
		zap.L().Warn("priceUnit field is invalid")
		err = models.ErrNotAllowed
	case !f.Availability.Valid():
		zap.L().Warn("availability field is invalid")
		err = models.ErrNotAllowed
	case f.Discount.Valid && (f.Discount.Decimal.IsNegative() || f.Discount.Decimal.GreaterThan(hundred)):
		zap.L().Warn("discount field is invalid")
		err = models.ErrNotAllowed
	case f.OriginalPrice.Valid && f.OriginalPrice.Decimal.IsNegative(),
		f.DiscountPrice.Valid && f.DiscountPrice.Decimal.IsNegative():
		zap.L().Warn("price fields must not be negative")
		err = models.ErrNotAllowed
	}
	return
}

func isValidLen(input string, minLen int, maxLen int) bool {
	inputLen := len([]rune(input))
	if inputLen < minLen || inputLen > maxLen {
		return false
	}
	return true
}

func isValidString(input string) bool {
	allowedSymbols := map[rune]bool{
		'-':  true,
		'_':  true,
		' ':  true,
		'.':  true,
		',':  true,
		'\'': true,
		'(':  true,
		')':  true,
		'&':  true,
	}
	for _, char := range input {
		if !(unicode.IsLetter(char) || unicode.IsDigit(char) || allowedSymbols[char]) {
			return false
		}
	}
	return true
}

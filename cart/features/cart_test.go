package features

import (
	"context"
	"fmt"
	"testing"

	"aquashop/cart"
	"aquashop/models"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type cartTestContext struct {
	catalog map[string]models.Fish
	state   cart.State
}

func (c *cartTestContext) reset() {
	c.catalog = map[string]models.Fish{}
	c.state = cart.Empty()
}

func (c *cartTestContext) theCatalogHasFishPriced(id string, price int) error {
	c.catalog[id] = models.Fish{Id: id, Name: id, Price: decimal.NewFromInt(int64(price)), Availability: models.InStock}
	return nil
}

func (c *cartTestContext) theCatalogHasFishWithPercentOff(id string, price, pct, original int) error {
	f := models.Fish{Id: id, Name: id, Price: decimal.NewFromInt(int64(price)), Availability: models.InStock}
	f.Discount = decimal.NewNullDecimal(decimal.NewFromInt(int64(pct)))
	f.OriginalPrice = decimal.NewNullDecimal(decimal.NewFromInt(int64(original)))
	c.catalog[id] = f
	return nil
}

func (c *cartTestContext) theCatalogHasFishWithDiscountPrice(id string, price, discountPrice int) error {
	f := models.Fish{Id: id, Name: id, Price: decimal.NewFromInt(int64(price)), Availability: models.InStock}
	f.DiscountPrice = decimal.NewNullDecimal(decimal.NewFromInt(int64(discountPrice)))
	c.catalog[id] = f
	return nil
}

func (c *cartTestContext) iAdd(qty int, id string) error {
	f, ok := c.catalog[id]
	if !ok {
		return fmt.Errorf("unknown fish %q", id)
	}
	c.state = cart.Reduce(c.state, cart.Add{Fish: f, Quantity: qty})
	return nil
}

func (c *cartTestContext) iSetTheQuantity(id string, qty int) error {
	c.state = cart.Reduce(c.state, cart.SetQuantity{FishID: id, Quantity: qty})
	return nil
}

func (c *cartTestContext) iRemove(id string) error {
	c.state = cart.Reduce(c.state, cart.Remove{FishID: id})
	return nil
}

func (c *cartTestContext) iClearTheCart() error {
	c.state = cart.Reduce(c.state, cart.Clear{})
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if len(c.state.Items) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(c.state.Items))
	}
	return nil
}

func (c *cartTestContext) theCartHolds(qty int, id string) error {
	it, ok := c.state.Find(id)
	if !ok {
		return fmt.Errorf("%q not in cart", id)
	}
	if it.Quantity != qty {
		return fmt.Errorf("expected %d of %q, got %d", qty, id, it.Quantity)
	}
	return nil
}

func (c *cartTestContext) theCartTotalIs(total string) error {
	want, err := decimal.NewFromString(total)
	if err != nil {
		return err
	}
	if !want.Equal(c.state.Total) {
		return fmt.Errorf("expected total %s, got %s", want, c.state.Total)
	}
	return nil
}

func (c *cartTestContext) theCartItemCountIs(n int) error {
	if c.state.ItemCount != n {
		return fmt.Errorf("expected item count %d, got %d", n, c.state.ItemCount)
	}
	return nil
}

func (c *cartTestContext) theCartIsEmpty() error {
	if len(c.state.Items) != 0 || c.state.ItemCount != 0 || !c.state.Total.IsZero() {
		return fmt.Errorf("cart not empty: %+v", c.state)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the catalog has fish "([^"]*)" priced (\d+)$`, tc.theCatalogHasFishPriced)
	ctx.Step(`^the catalog has fish "([^"]*)" priced (\d+) with (\d+) percent off an original (\d+)$`, tc.theCatalogHasFishWithPercentOff)
	ctx.Step(`^the catalog has fish "([^"]*)" priced (\d+) with a discount price of (\d+)$`, tc.theCatalogHasFishWithDiscountPrice)

	// When steps
	ctx.Step(`^I add (\d+) of "([^"]*)"$`, tc.iAdd)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantity)
	ctx.Step(`^I remove "([^"]*)"$`, tc.iRemove)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart holds (\d+) of "([^"]*)"$`, tc.theCartHolds)
	ctx.Step(`^the cart total is (\S+)$`, tc.theCartTotalIs)
	ctx.Step(`^the cart item count is (\d+)$`, tc.theCartItemCountIs)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

package pos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odenstall/pos/internal/domain/models"
)

func TestCartOperations(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.AddToCart("p1")
	require.NoError(t, err)
	_, err = svc.AddToCart("p2")
	require.NoError(t, err)
	lines, err := svc.AddToCart("p1")
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Qty)
	assert.Equal(t, 1, lines[1].Qty)

	lines, err = svc.AdjustQty("p1", -5)
	require.NoError(t, err)
	assert.Equal(t, 1, lines[0].Qty, "quantity never drops below one")

	lines, err = svc.AdjustQty("p2", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, lines[1].Qty)

	_, err = svc.AdjustQty("p9", 1)
	assert.ErrorIs(t, err, ErrCartLineNotFound)

	lines = svc.RemoveLine("p1")
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ID)

	assert.Len(t, svc.RemoveLine("unknown"), 1)

	_, err = svc.AddToCart("missing")
	assert.ErrorIs(t, err, ErrProductNotFound)

	svc.ClearCart()
	assert.Empty(t, svc.Cart())
}

func TestAddToCartIgnoresStockCeiling(t *testing.T) {
	svc, _, _ := setup(t)

	for i := 0; i < 5; i++ {
		_, err := svc.AddToCart("p3")
		require.NoError(t, err)
	}
	assert.Equal(t, 5, svc.Cart()[0].Qty)
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	svc, repo, pub := setup(t)

	_, err := svc.SetPrice(ctx, "p2", 20)
	require.NoError(t, err)
	_, err = svc.StockIn(ctx, "i1", 1, nil)
	require.NoError(t, err)
	_, err = svc.Convert(ctx, "p1", 1)
	require.NoError(t, err)

	_, err = svc.AddToCart("p1")
	require.NoError(t, err)
	_, err = svc.AddToCart("p1")
	require.NoError(t, err)
	_, err = svc.AddToCart("p2")
	require.NoError(t, err)

	sale, err := svc.Checkout(ctx)
	require.NoError(t, err)

	assert.Equal(t, 40.0, sale.Total)
	assert.Equal(t, "2026-10-16", sale.Date)
	assert.Equal(t, "ซาลาเปาไส้ครีมชีส x2, ฟองเต้าหู้ x1", sale.Items)
	assert.Empty(t, svc.Cart())
	assert.Equal(t, []models.SaleRecord{sale}, svc.Sales())

	p1, err := svc.Product("p1")
	require.NoError(t, err)
	assert.Equal(t, 18, p1.Stock)

	p2, err := svc.Product("p2")
	require.NoError(t, err)
	assert.Zero(t, p2.Stock, "oversold stock clamps at zero")

	reloaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, svc.Snapshot(), reloaded)

	last := pub.events[len(pub.events)-1]
	assert.Equal(t, models.EventSale, last.Type)
	assert.Equal(t, sale, last.Data)
}

func TestCheckoutPrependsSales(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	_, err := svc.AddToCart("p1")
	require.NoError(t, err)
	first, err := svc.Checkout(ctx)
	require.NoError(t, err)

	_, err = svc.AddToCart("p2")
	require.NoError(t, err)
	second, err := svc.Checkout(ctx)
	require.NoError(t, err)

	assert.Equal(t, []models.SaleRecord{second, first}, svc.Sales())
}

func TestCheckoutUsesPriceCapturedInCart(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	_, err := svc.AddToCart("p1")
	require.NoError(t, err)
	_, err = svc.SetPrice(ctx, "p1", 50)
	require.NoError(t, err)

	sale, err := svc.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, sale.Total)
}

func TestCheckoutEmptyCartIsNoop(t *testing.T) {
	svc, _, pub := setup(t)
	before := svc.Snapshot()

	_, err := svc.Checkout(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, before, svc.Snapshot())
	assert.Empty(t, pub.events)
}

func TestCheckoutPersistFailureKeepsCart(t *testing.T) {
	svc, repo, _ := setup(t)
	_, err := svc.AddToCart("p1")
	require.NoError(t, err)

	repo.fail = true
	_, err = svc.Checkout(context.Background())
	assert.ErrorIs(t, err, ErrPersist)
	assert.Len(t, svc.Cart(), 1)
	assert.Empty(t, svc.Sales())
}

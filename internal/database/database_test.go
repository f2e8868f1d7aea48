package database

import (
	"path/filepath"
	"testing"
	"time"

	"bot-itens/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "items.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(v string) *string { return &v }
func intPtr(v int64) *int64   { return &v }

func testData(url string) *models.ItemData {
	return &models.ItemData{
		URL:        url,
		Title:      strPtr("AK-47 | Redline (Field-Tested)"),
		Price:      strPtr("$145.25"),
		AvgPrice:   strPtr("$150.00"),
		SalesCount: intPtr(42),
	}
}

func TestInsertIfAbsent(t *testing.T) {
	db := newTestDB(t)

	inserted, err := db.InsertIfAbsent(testData("https://market.csgo.com/item/1"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// URL repetida não é erro, só um no-op
	inserted, err = db.InsertIfAbsent(testData("https://market.csgo.com/item/1"))
	require.NoError(t, err)
	assert.False(t, inserted)

	item, err := db.GetByURL("https://market.csgo.com/item/1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "AK-47 | Redline (Field-Tested)", item.Title)
	require.NotNil(t, item.CurrentPrice)
	assert.Equal(t, 145.25, *item.CurrentPrice)
	require.NotNil(t, item.AvgPrice)
	assert.Equal(t, 150.00, *item.AvgPrice)
	require.NotNil(t, item.SalesCount)
	assert.Equal(t, int64(42), *item.SalesCount)
	assert.Equal(t, 0.0, item.PurchasePrice)
	assert.Equal(t, 0.0, item.ProfitPercent)
}

func TestUpdateRecomputesProfit(t *testing.T) {
	db := newTestDB(t)
	url := "https://market.csgo.com/item/2"

	_, err := db.InsertIfAbsent(testData(url))
	require.NoError(t, err)
	_, err = db.SetPurchasePrice(url, 100.00)
	require.NoError(t, err)

	data := testData(url)
	data.Price = strPtr("$150.00")
	updated, err := db.Update(data)
	require.NoError(t, err)
	assert.True(t, updated)

	item, err := db.GetByURL(url)
	require.NoError(t, err)
	require.NotNil(t, item)

	// profit_percent armazenado deve bater com o motor de lucro
	_, percent := models.Profit(item.CurrentPrice, item.PurchasePrice)
	assert.Equal(t, percent, item.ProfitPercent)
	assert.InDelta(t, 50.00, item.ProfitPercent, 1e-9)
}

func TestUpdateUnknownURL(t *testing.T) {
	db := newTestDB(t)

	updated, err := db.Update(testData("https://market.csgo.com/item/nada"))
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestUpdateWithUnparsablePrice(t *testing.T) {
	db := newTestDB(t)
	url := "https://market.csgo.com/item/3"

	_, err := db.InsertIfAbsent(testData(url))
	require.NoError(t, err)
	_, err = db.SetPurchasePrice(url, 100.00)
	require.NoError(t, err)

	// Preço ilegível vira nulo, nunca erro; o lucro volta para o caso
	// "preço atual ausente"
	data := testData(url)
	data.Price = strPtr("indisponível")
	data.AvgPrice = nil
	updated, err := db.Update(data)
	require.NoError(t, err)
	assert.True(t, updated)

	item, err := db.GetByURL(url)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Nil(t, item.CurrentPrice)
	assert.Nil(t, item.AvgPrice)
	assert.Equal(t, -100.00, item.ProfitPercent)
}

func TestUpsertIdempotent(t *testing.T) {
	db := newTestDB(t)
	url := "https://market.csgo.com/item/4"

	require.NoError(t, db.Upsert(testData(url)))

	// Segunda chamada: continua uma linha só, com os campos da segunda
	data := testData(url)
	data.Title = strPtr("AK-47 | Redline (Minimal Wear)")
	data.Price = strPtr("$199.99")
	require.NoError(t, db.Upsert(data))

	items, err := db.ListAll()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "AK-47 | Redline (Minimal Wear)", items[0].Title)
	require.NotNil(t, items[0].CurrentPrice)
	assert.Equal(t, 199.99, *items[0].CurrentPrice)
}

func TestSetPurchasePrice(t *testing.T) {
	db := newTestDB(t)
	url := "https://market.csgo.com/item/5"

	_, err := db.InsertIfAbsent(testData(url))
	require.NoError(t, err)

	updated, err := db.SetPurchasePrice(url, 100.00)
	require.NoError(t, err)
	assert.True(t, updated)

	item, err := db.GetByURL(url)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 100.00, item.PurchasePrice)
	assert.InDelta(t, 45.25, item.ProfitPercent, 1e-9)

	// Zerar o preço de compra zera o lucro
	_, err = db.SetPurchasePrice(url, 0)
	require.NoError(t, err)
	item, err = db.GetByURL(url)
	require.NoError(t, err)
	assert.Equal(t, 0.0, item.ProfitPercent)
}

func TestSetPurchasePriceByID(t *testing.T) {
	db := newTestDB(t)
	url := "https://market.csgo.com/item/6"

	_, err := db.InsertIfAbsent(testData(url))
	require.NoError(t, err)
	item, err := db.GetByURL(url)
	require.NoError(t, err)
	require.NotNil(t, item)

	updated, err := db.SetPurchasePriceByID(item.ID, 50.00)
	require.NoError(t, err)
	assert.True(t, updated)

	item, err = db.GetByID(item.ID)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 50.00, item.PurchasePrice)
	_, percent := models.Profit(item.CurrentPrice, item.PurchasePrice)
	assert.Equal(t, percent, item.ProfitPercent)

	updated, err = db.SetPurchasePriceByID(9999, 50.00)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestListAllOrder(t *testing.T) {
	db := newTestDB(t)

	for _, url := range []string{
		"https://market.csgo.com/item/a",
		"https://market.csgo.com/item/b",
		"https://market.csgo.com/item/c",
	} {
		data := testData(url)
		data.Title = strPtr(url)
		_, err := db.InsertIfAbsent(data)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	// Tocar o item "a" deve trazê-lo para o topo da lista
	time.Sleep(5 * time.Millisecond)
	_, err := db.SetPurchasePrice("https://market.csgo.com/item/a", 10.00)
	require.NoError(t, err)

	items, err := db.ListAll()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "https://market.csgo.com/item/a", items[0].URL)
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	url := "https://market.csgo.com/item/7"

	_, err := db.InsertIfAbsent(testData(url))
	require.NoError(t, err)
	item, err := db.GetByURL(url)
	require.NoError(t, err)
	require.NotNil(t, item)

	deleted, err := db.Delete(item.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	items, err := db.ListAll()
	require.NoError(t, err)
	assert.Empty(t, items)

	got, err := db.GetByID(item.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	deleted, err = db.Delete(item.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

package cart_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/freshmart-cart/internal/cart"
	"github.com/nikolayk812/freshmart-cart/internal/domain"
	"github.com/nikolayk812/freshmart-cart/internal/port"
	"github.com/nikolayk812/freshmart-cart/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type storeSuite struct {
	suite.Suite

	newStorage func() port.SlotStorage
	storage    port.SlotStorage
	store      *cart.Store
}

// Memory implements SlotUpdater, so this runs the atomic update path.
func TestStoreSuite_Updater(t *testing.T) {
	suite.Run(t, &storeSuite{newStorage: func() port.SlotStorage { return storage.NewMemory() }})
}

// plainStorage hides Update, so this runs the load-mutate-set path.
func TestStoreSuite_Plain(t *testing.T) {
	suite.Run(t, &storeSuite{newStorage: func() port.SlotStorage { return plainStorage{storage.NewMemory()} }})
}

// before each test
func (suite *storeSuite) SetupTest() {
	suite.storage = suite.newStorage()
	suite.store = cart.New(suite.storage, "")
}

func (suite *storeSuite) TestLoad_Empty() {
	items := suite.store.Load(suite.T().Context())

	suite.NotNil(items)
	suite.Empty(items)
	suite.NoError(suite.store.LastError())
}

func (suite *storeSuite) TestLoad_Corrupt() {
	tests := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: "{{{"},
		{name: "object", blob: `{"product_id":1}`},
		{name: "string", blob: `"cart"`},
		{name: "number", blob: `42`},
		{name: "null", blob: `null`},
		{name: "array of scalars", blob: `[1,2,3]`},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			require.NoError(t, suite.storage.Set(ctx, cart.DefaultSlotKey, []byte(tt.blob)))

			items := suite.store.Load(ctx)
			assert.NotNil(t, items)
			assert.Empty(t, items)
			assert.Error(t, suite.store.LastError())
		})
	}
}

func (suite *storeSuite) TestLoad_Reconciles() {
	t := suite.T()
	ctx := t.Context()

	blob := `[
		{"product_id": 1, "name": "Milk 1L", "price": "0.99", "quantity": 0},
		{"name": "no id", "price": 1, "quantity": 1},
		{"product_id": "2", "name": "Bread", "price": -3, "quantity": "2"}
	]`
	require.NoError(t, suite.storage.Set(ctx, cart.DefaultSlotKey, []byte(blob)))

	items := suite.store.Load(ctx)

	assertItems(t, []domain.LineItem{
		{ProductID: "1", Name: "Milk 1L", Price: decimal.RequireFromString("0.99"), Quantity: 1},
		{ProductID: "2", Name: "Bread", Price: decimal.Zero, Quantity: 2},
	}, items)
}

func (suite *storeSuite) TestAdd() {
	product := randomProduct()

	tests := []struct {
		name         string
		adds         []int
		wantQuantity int
	}{
		{name: "single add", adds: []int{1}, wantQuantity: 1},
		{name: "same product twice merges", adds: []int{1, 1}, wantQuantity: 2},
		{name: "requested quantity is summed", adds: []int{2, 3}, wantQuantity: 5},
		{name: "zero clamps to one", adds: []int{0}, wantQuantity: 1},
		{name: "negative clamps to one", adds: []int{-4}, wantQuantity: 1},
		{name: "negative merge adds one", adds: []int{3, -4}, wantQuantity: 4},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			defer suite.store.Clear(ctx)

			var items []domain.LineItem
			for _, qty := range tt.adds {
				items = suite.store.Add(ctx, product, qty)
			}

			require.Len(t, items, 1)
			assert.Equal(t, tt.wantQuantity, items[0].Quantity)
			assertItems(t, items, suite.store.Load(ctx))
		})
	}
}

func (suite *storeSuite) TestAdd_CapturesProduct() {
	t := suite.T()
	ctx := t.Context()

	product := randomProduct()
	suite.store.Add(ctx, product, 1)

	// catalog changes after add are not reflected
	product.Name = "renamed"
	product.Price = product.Price.Add(decimal.NewFromInt(10))

	items := suite.store.Add(ctx, product, 1)

	require.Len(t, items, 1)
	assert.NotEqual(t, "renamed", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
}

func (suite *storeSuite) TestAdd_PreservesOrder() {
	t := suite.T()
	ctx := t.Context()

	first, second, third := randomProduct(), randomProduct(), randomProduct()
	suite.store.Add(ctx, first, 1)
	suite.store.Add(ctx, second, 1)
	suite.store.Add(ctx, third, 1)
	items := suite.store.Add(ctx, first, 1)

	require.Len(t, items, 3)
	assert.Equal(t, []domain.ProductID{first.ID, second.ID, third.ID}, productIDs(items))
}

func (suite *storeSuite) TestAdd_MissingID() {
	t := suite.T()
	ctx := t.Context()

	existing := suite.store.Add(ctx, randomProduct(), 1)

	product := randomProduct()
	product.ID = ""
	items := suite.store.Add(ctx, product, 3)

	assertItems(t, existing, items)
	assertItems(t, existing, suite.store.Load(ctx))
}

func (suite *storeSuite) TestAdd_NegativePrice() {
	t := suite.T()
	ctx := t.Context()

	product := randomProduct()
	product.Price = decimal.NewFromInt(-2)
	items := suite.store.Add(ctx, product, 1)

	require.Len(t, items, 1)
	assert.True(t, items[0].Price.IsZero())
}

func (suite *storeSuite) TestUpdateQuantity() {
	tests := []struct {
		name         string
		quantity     int
		wantQuantity int
	}{
		{name: "set higher", quantity: 7, wantQuantity: 7},
		{name: "set lower", quantity: 2, wantQuantity: 2},
		{name: "zero clamps to one", quantity: 0, wantQuantity: 1},
		{name: "negative clamps to one", quantity: -1, wantQuantity: 1},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			defer suite.store.Clear(ctx)

			product := randomProduct()
			suite.store.Add(ctx, product, 3)

			items := suite.store.UpdateQuantity(ctx, product.ID, tt.quantity)

			require.Len(t, items, 1)
			assert.Equal(t, tt.wantQuantity, items[0].Quantity)
			assertItems(t, items, suite.store.Load(ctx))
		})
	}
}

func (suite *storeSuite) TestUpdateQuantity_Absent() {
	t := suite.T()
	ctx := t.Context()

	existing := suite.store.Add(ctx, randomProduct(), 2)

	items := suite.store.UpdateQuantity(ctx, "missing", 9)

	assertItems(t, existing, items)
	assertItems(t, existing, suite.store.Load(ctx))
}

func (suite *storeSuite) TestRemove() {
	t := suite.T()
	ctx := t.Context()

	first, second := randomProduct(), randomProduct()
	suite.store.Add(ctx, first, 1)
	suite.store.Add(ctx, second, 2)

	items := suite.store.Remove(ctx, first.ID)

	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ProductID)
	assertItems(t, items, suite.store.Load(ctx))
}

func (suite *storeSuite) TestRemove_Absent() {
	t := suite.T()
	ctx := t.Context()

	suite.store.Add(ctx, randomProduct(), 1)
	before := suite.store.Add(ctx, randomProduct(), 4)

	items := suite.store.Remove(ctx, "missing")

	assertItems(t, before, items)
	assertItems(t, before, suite.store.Load(ctx))
}

func (suite *storeSuite) TestClear() {
	t := suite.T()
	ctx := t.Context()

	suite.store.Add(ctx, randomProduct(), 1)
	suite.store.Add(ctx, randomProduct(), 1)

	suite.store.Clear(ctx)

	items := suite.store.Load(ctx)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func (suite *storeSuite) TestSave_RoundTrip() {
	t := suite.T()
	ctx := t.Context()

	want := []domain.LineItem{
		{ProductID: "3", Name: "Bread (whole grain)", Price: decimal.RequireFromString("1.79"), Quantity: 2, Category: "bakery"},
		{ProductID: "1", Name: "Bananas (1kg)", Price: decimal.RequireFromString("1.49"), Quantity: 1, ImageURL: "/img/bananas.png"},
		{ProductID: "b6f0c9f2-6f0e-4f0a-9a55-3f1e0a2f4c11", Name: "Milk 1L", Price: decimal.RequireFromString("0.99"), Quantity: 12},
	}

	suite.store.Save(ctx, want)

	assertItems(t, want, suite.store.Load(ctx))
}

func (suite *storeSuite) TestSave_RoundTripAboveInt32() {
	t := suite.T()
	ctx := t.Context()

	quantity := math.MaxInt32
	quantity += 852_516_353 // 3_000_000_000 on 64-bit platforms

	want := []domain.LineItem{
		{ProductID: "1", Name: "Rice (bulk)", Price: decimal.RequireFromString("0.01"), Quantity: quantity},
	}
	suite.store.Save(ctx, want)

	assertItems(t, want, suite.store.Load(ctx))
}

func (suite *storeSuite) TestAdd_Saturates() {
	t := suite.T()
	ctx := t.Context()

	product := randomProduct()
	suite.store.Add(ctx, product, math.MaxInt32)
	items := suite.store.Add(ctx, product, math.MaxInt32)

	want := math.MaxInt32
	want *= 2

	require.Len(t, items, 1)
	assert.Equal(t, want, items[0].Quantity)
	assertItems(t, items, suite.store.Load(ctx))

	fromResult, persisted := suite.store.Totals(ctx, items), suite.store.Totals(ctx, nil)
	assert.Equal(t, fromResult.Count, persisted.Count)
	assert.True(t, fromResult.Total.Amount.Equal(persisted.Total.Amount))

	suite.store.UpdateQuantity(ctx, product.ID, math.MaxInt)
	items = suite.store.Add(ctx, product, 5)

	require.Len(t, items, 1)
	assert.Equal(t, math.MaxInt, items[0].Quantity)
	assertItems(t, items, suite.store.Load(ctx))
}

func (suite *storeSuite) TestSave_PersistedShape() {
	t := suite.T()
	ctx := t.Context()

	suite.store.Save(ctx, []domain.LineItem{
		{ProductID: "1", Name: "Bananas (1kg)", Price: decimal.RequireFromString("1.49"), Quantity: 2},
	})

	blob, err := suite.storage.Get(ctx, cart.DefaultSlotKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"product_id":1,"name":"Bananas (1kg)","price":1.49,"quantity":2}]`, string(blob))
}

func (suite *storeSuite) TestTotals() {
	t := suite.T()
	ctx := t.Context()

	empty := suite.store.Totals(ctx, []domain.LineItem{})
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.Subtotal.Amount.IsZero())
	assert.True(t, empty.Total.Amount.IsZero())

	explicit := suite.store.Totals(ctx, []domain.LineItem{
		{ProductID: "1", Price: decimal.RequireFromString("2.5"), Quantity: 3},
		{ProductID: "2", Price: decimal.NewFromInt(1), Quantity: 1},
	})
	assert.Equal(t, 4, explicit.Count)
	assert.Equal(t, "8.5", explicit.Subtotal.Amount.String())
	assert.Equal(t, "8.5", explicit.Total.Amount.String())

	suite.store.Add(ctx, domain.Product{ID: "9", Name: "Eggs", Price: decimal.RequireFromString("0.25")}, 4)
	persisted := suite.store.Totals(ctx, nil)
	assert.Equal(t, 4, persisted.Count)
	assert.Equal(t, "1", persisted.Total.Amount.String())
}

func TestStore_SeparateSlots(t *testing.T) {
	ctx := t.Context()
	mem := storage.NewMemory()

	alice := cart.New(mem, "freshmart_cart:alice")
	bob := cart.New(mem, "freshmart_cart:bob")

	alice.Add(ctx, randomProduct(), 1)

	assert.Len(t, alice.Load(ctx), 1)
	assert.Empty(t, bob.Load(ctx))
}

func TestStore_StorageFailures(t *testing.T) {
	ctx := t.Context()

	tests := []struct {
		name    string
		storage port.SlotStorage
	}{
		{name: "get and set fail", storage: brokenStorage{err: errors.New("storage disabled")}},
		{name: "update fails", storage: brokenUpdater{brokenStorage{err: errors.New("quota exceeded")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := cart.New(tt.storage, "")
			product := randomProduct()

			assert.Empty(t, store.Load(ctx))
			require.Error(t, store.LastError())

			items := store.Add(ctx, product, 2)
			require.Len(t, items, 1)
			assert.Equal(t, 2, items[0].Quantity)
			require.Error(t, store.LastError())

			assert.NotPanics(t, func() { store.Clear(ctx) })
			assert.Error(t, store.LastError())

			assert.Equal(t, 0, store.Totals(ctx, nil).Count)
		})
	}
}

type plainStorage struct {
	inner port.SlotStorage
}

func (p plainStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return p.inner.Get(ctx, key)
}

func (p plainStorage) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, key, value)
}

type brokenStorage struct {
	err error
}

func (b brokenStorage) Get(context.Context, string) ([]byte, error) {
	return nil, b.err
}

func (b brokenStorage) Set(context.Context, string, []byte) error {
	return b.err
}

type brokenUpdater struct {
	brokenStorage
}

func (b brokenUpdater) Update(context.Context, string, func([]byte) ([]byte, error)) error {
	return b.err
}

func randomProduct() domain.Product {
	return domain.Product{
		ID:       domain.ProductID(gofakeit.UUID()),
		Name:     gofakeit.ProductName(),
		Price:    decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		ImageURL: gofakeit.URL(),
		Category: gofakeit.ProductCategory(),
	}
}

func productIDs(items []domain.LineItem) []domain.ProductID {
	ids := make([]domain.ProductID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func assertItems(t *testing.T, expected, actual []domain.LineItem) {
	t.Helper()

	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})

	diff := cmp.Diff(expected, actual, decimalComparer)
	assert.Empty(t, diff)
}

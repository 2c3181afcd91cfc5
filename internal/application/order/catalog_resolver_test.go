package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/catalog"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

func TestCatalogResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit product id keeps the supplied name", func(t *testing.T) {
		products := new(MockProductRepository)
		r := NewCatalogResolver(products)

		id, name, err := r.Resolve(ctx, ItemInput{ProductID: int64Ref(5), ProductName: " Custom Bench "})
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
		assert.Equal(t, "Custom Bench", name)
		products.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
		products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("product id without a name takes the catalog name", func(t *testing.T) {
		products := new(MockProductRepository)
		r := NewCatalogResolver(products)
		products.On("FindByID", ctx, int64(5)).Return(&catalog.Product{ID: 5, Name: "Table"}, nil).Once()

		id, name, err := r.Resolve(ctx, ItemInput{ProductID: int64Ref(5)})
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
		assert.Equal(t, "Table", name)
		products.AssertExpectations(t)
	})

	t.Run("unknown product id resolves without a name", func(t *testing.T) {
		products := new(MockProductRepository)
		r := NewCatalogResolver(products)
		products.On("FindByID", ctx, int64(99)).Return(nil, shared.ErrNotFound).Once()

		id, name, err := r.Resolve(ctx, ItemInput{ProductID: int64Ref(99)})
		require.NoError(t, err)
		assert.Equal(t, int64(99), id)
		assert.Empty(t, name)
		products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("existing product found by name", func(t *testing.T) {
		products := new(MockProductRepository)
		r := NewCatalogResolver(products)
		products.On("FindByName", ctx, "Chair").Return(&catalog.Product{ID: 8, Name: "Chair"}, nil).Once()

		id, name, err := r.Resolve(ctx, ItemInput{ProductName: " Chair "})
		require.NoError(t, err)
		assert.Equal(t, int64(8), id)
		assert.Equal(t, "Chair", name)
		products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown name creates a product from the line", func(t *testing.T) {
		products := new(MockProductRepository)
		r := NewCatalogResolver(products)
		price := decimal.NewFromInt(750)

		products.On("FindByName", ctx, "Stool").Return(nil, shared.ErrNotFound).Once()
		products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.Name == "Stool" && p.DefaultUnitPrice.Equal(price) &&
				p.Notes != nil && *p.Notes == "three legs"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*catalog.Product).ID = 21
		}).Return(nil).Once()

		id, _, err := r.Resolve(ctx, ItemInput{ProductName: "Stool", UnitPrice: &price, Description: "three legs"})
		require.NoError(t, err)
		assert.Equal(t, int64(21), id)
		products.AssertExpectations(t)
	})

	t.Run("case-differing names share one product within a call", func(t *testing.T) {
		products := new(MockProductRepository)
		r := NewCatalogResolver(products)

		products.On("FindByName", ctx, "Chair").Return(nil, shared.ErrNotFound).Once()
		products.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*catalog.Product).ID = 30
		}).Return(nil).Once()

		first, _, err := r.Resolve(ctx, ItemInput{ProductName: "Chair"})
		require.NoError(t, err)
		second, _, err := r.Resolve(ctx, ItemInput{ProductName: "chair"})
		require.NoError(t, err)

		assert.Equal(t, first, second)
		products.AssertNumberOfCalls(t, "FindByName", 1)
		products.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("missing product defaults to zero price and no notes", func(t *testing.T) {
		products := new(MockProductRepository)
		r := NewCatalogResolver(products)

		products.On("FindByName", ctx, "Shelf").Return(nil, shared.ErrNotFound).Once()
		products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.DefaultUnitPrice.IsZero() && p.Notes == nil
		})).Return(nil).Once()

		_, _, err := r.Resolve(ctx, ItemInput{ProductName: "Shelf"})
		require.NoError(t, err)
		products.AssertExpectations(t)
	})

	t.Run("line without id or name is invalid", func(t *testing.T) {
		r := NewCatalogResolver(new(MockProductRepository))
		_, _, err := r.Resolve(ctx, ItemInput{ProductName: "  "})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/services"
)

func price(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func seedManager(t *testing.T) *services.InventoryManager {
	t.Helper()

	m := services.NewInventoryManager()
	m.Add("Kaju Katli", domain.CategoryNutBased, price(50), 20)
	m.Add("Gajar Halwa", domain.CategoryVegetableBased, price(30), 15)
	m.Add("Gulab Jamun", domain.CategoryMilkBased, price(10), 50)
	return m
}

func ids(items []*domain.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestInventoryManager_Add(t *testing.T) {
	t.Run("first_item_gets_1001", func(t *testing.T) {
		m := services.NewInventoryManager()

		item := m.Add("Kaju Katli", domain.CategoryNutBased, price(50), 20)

		assert.Equal(t, int64(1001), item.ID)
		assert.Len(t, m.ViewAll(), 1)
	})

	t.Run("ids_follow_max_plus_one", func(t *testing.T) {
		m := services.NewInventoryManager()

		first := m.Add("Kaju Katli", domain.CategoryNutBased, price(50), 20)
		second := m.Add("Gajar Halwa", domain.CategoryVegetableBased, price(30), 15)
		third := m.Add("Gulab Jamun", domain.CategoryMilkBased, price(10), 50)

		assert.Equal(t, []int64{1001, 1002, 1003}, []int64{first.ID, second.ID, third.ID})
	})

	t.Run("deleting_max_id_reuses_it", func(t *testing.T) {
		m := services.NewInventoryManager()
		m.Add("Kaju Katli", domain.CategoryNutBased, price(50), 20)
		second := m.Add("Gajar Halwa", domain.CategoryVegetableBased, price(30), 15)

		require.NoError(t, m.Delete(second.ID))
		third := m.Add("Gulab Jamun", domain.CategoryMilkBased, price(10), 50)

		assert.Equal(t, int64(1002), third.ID)
	})

	t.Run("deleting_non_max_id_does_not_affect_next_id", func(t *testing.T) {
		m := services.NewInventoryManager()
		first := m.Add("Kaju Katli", domain.CategoryNutBased, price(50), 20)
		m.Add("Gajar Halwa", domain.CategoryVegetableBased, price(30), 15)

		require.NoError(t, m.Delete(first.ID))
		third := m.Add("Gulab Jamun", domain.CategoryMilkBased, price(10), 50)

		assert.Equal(t, int64(1003), third.ID)
	})

	t.Run("uses_max_of_loaded_ids_not_last", func(t *testing.T) {
		m := services.NewInventoryManager()
		m.Load([]domain.Record{
			{ID: 1007, Name: "Barfi", Category: "Milk-Based", Price: price(20), Quantity: 5},
			{ID: 1003, Name: "Jalebi", Category: "Sugar-Based", Price: price(15), Quantity: 8},
		})

		item := m.Add("Ladoo", domain.CategorySugarBased, price(12), 30)

		assert.Equal(t, int64(1008), item.ID)
	})

	t.Run("zero_quantity_is_accepted", func(t *testing.T) {
		m := services.NewInventoryManager()

		item := m.Add("Rasgulla", domain.CategoryMilkBased, price(15), 0)

		assert.Equal(t, 0, item.Quantity)
		assert.Len(t, m.ViewAll(), 1)
	})

	t.Run("duplicate_names_are_accepted", func(t *testing.T) {
		m := services.NewInventoryManager()
		m.Add("Kaju Katli", domain.CategoryNutBased, price(50), 20)

		dup := m.Add("kaju katli", domain.CategoryNutBased, price(55), 3)

		assert.Equal(t, int64(1002), dup.ID)
		assert.Len(t, m.ViewAll(), 2)
	})
}

func TestInventoryManager_Delete(t *testing.T) {
	t.Run("removes_only_the_matching_item", func(t *testing.T) {
		m := seedManager(t)

		require.NoError(t, m.Delete(1002))

		items := m.ViewAll()
		assert.Equal(t, []int64{1001, 1003}, ids(items))
		assert.Equal(t, "Kaju Katli", items[0].Name)
		assert.Equal(t, 50, items[1].Quantity)
	})

	t.Run("last_item_empties_catalog", func(t *testing.T) {
		m := services.NewInventoryManager()
		item := m.Add("Kaju Katli", domain.CategoryNutBased, price(50), 20)

		require.NoError(t, m.Delete(item.ID))

		assert.Empty(t, m.ViewAll())
	})

	t.Run("unknown_id_is_not_found_and_changes_nothing", func(t *testing.T) {
		m := seedManager(t)
		before := m.Export()

		err := m.Delete(9999)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, int64(9999), nf.ID)
		assert.Equal(t, before, m.Export())
	})
}

func TestInventoryManager_ViewAll(t *testing.T) {
	t.Run("empty_catalog", func(t *testing.T) {
		m := services.NewInventoryManager()
		assert.Empty(t, m.ViewAll())
	})

	t.Run("keeps_insertion_order", func(t *testing.T) {
		m := seedManager(t)
		assert.Equal(t, []int64{1001, 1002, 1003}, ids(m.ViewAll()))
	})
}

func TestInventoryManager_Search(t *testing.T) {
	m := seedManager(t)
	m.Add("Kaju Roll", domain.CategoryNutBased, price(40), 12)

	tests := []struct {
		name     string
		search   func() []*domain.Item
		expected []int64
	}{
		{
			name:     "name_is_case_insensitive",
			search:   func() []*domain.Item { return m.SearchByName("KAJU") },
			expected: []int64{1001, 1004},
		},
		{
			name:     "name_matches_substring",
			search:   func() []*domain.Item { return m.SearchByName("halw") },
			expected: []int64{1002},
		},
		{
			name:     "name_without_match_is_empty",
			search:   func() []*domain.Item { return m.SearchByName("missing") },
			expected: []int64{},
		},
		{
			name:     "category_is_case_insensitive",
			search:   func() []*domain.Item { return m.SearchByCategory("nut") },
			expected: []int64{1001, 1004},
		},
		{
			name:     "category_without_match_is_empty",
			search:   func() []*domain.Item { return m.SearchByCategory("chocolate") },
			expected: []int64{},
		},
		{
			name:     "price_range_is_inclusive",
			search:   func() []*domain.Item { return m.SearchByPriceRange(price(30), price(50)) },
			expected: []int64{1001, 1002, 1004},
		},
		{
			name:     "price_range_single_point",
			search:   func() []*domain.Item { return m.SearchByPriceRange(price(10), price(10)) },
			expected: []int64{1003},
		},
		{
			name:     "price_range_without_match_is_empty",
			search:   func() []*domain.Item { return m.SearchByPriceRange(price(60), price(70)) },
			expected: []int64{},
		},
		{
			name:     "inverted_price_range_is_empty",
			search:   func() []*domain.Item { return m.SearchByPriceRange(price(50), price(10)) },
			expected: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.search()
			require.NotNil(t, result)
			assert.Equal(t, tt.expected, ids(result))
		})
	}
}

func TestInventoryManager_Purchase(t *testing.T) {
	t.Run("decrements_quantity", func(t *testing.T) {
		m := seedManager(t)

		require.NoError(t, m.Purchase(1001, 5))

		item, err := m.Get(1001)
		require.NoError(t, err)
		assert.Equal(t, 15, item.Quantity)
		assert.Len(t, m.ViewAll(), 3)
	})

	t.Run("exact_quantity_leaves_zero_and_keeps_item", func(t *testing.T) {
		m := seedManager(t)

		require.NoError(t, m.Purchase(1001, 20))

		item, err := m.Get(1001)
		require.NoError(t, err)
		assert.Equal(t, 0, item.Quantity)
		assert.Contains(t, ids(m.ViewAll()), int64(1001))
	})

	t.Run("more_than_available_is_rejected_without_deduction", func(t *testing.T) {
		m := seedManager(t)

		err := m.Purchase(1001, 25)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		var stockErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, int64(1001), stockErr.ID)
		assert.Equal(t, 25, stockErr.Requested)
		assert.Equal(t, 20, stockErr.Available)

		item, _ := m.Get(1001)
		assert.Equal(t, 20, item.Quantity)
	})

	t.Run("unknown_id_is_not_found_and_changes_nothing", func(t *testing.T) {
		m := seedManager(t)
		before := m.Export()

		err := m.Purchase(4242, 1)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, before, m.Export())
	})
}

func TestInventoryManager_Restock(t *testing.T) {
	t.Run("increments_by_exact_amount", func(t *testing.T) {
		m := seedManager(t)

		require.NoError(t, m.Restock(1002, 10))

		item, _ := m.Get(1002)
		assert.Equal(t, 25, item.Quantity)
	})

	t.Run("restocks_sold_out_item", func(t *testing.T) {
		m := seedManager(t)
		require.NoError(t, m.Purchase(1003, 50))

		require.NoError(t, m.Restock(1003, 7))

		item, _ := m.Get(1003)
		assert.Equal(t, 7, item.Quantity)
	})

	t.Run("unknown_id_is_not_found_and_changes_nothing", func(t *testing.T) {
		m := seedManager(t)
		before := m.Export()

		err := m.Restock(1, 5)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, before, m.Export())
	})
}

func TestInventoryManager_LoadExport(t *testing.T) {
	records := []domain.Record{
		{ID: 1001, Name: "Kaju Katli", Category: "Nut-Based", Price: price(50), Quantity: 20},
		{ID: 1005, Name: "Peda", Category: "Milk-Based", Price: price(8), Quantity: 0},
	}

	m := services.NewInventoryManager()
	m.Load(records)

	assert.Equal(t, records, m.Export())
	assert.Equal(t, 2, m.Len())

	// Load replaces rather than appends.
	m.Load(records[:1])
	assert.Equal(t, []int64{1001}, ids(m.ViewAll()))
}

func TestInventoryManager_ShopScenario(t *testing.T) {
	m := services.NewInventoryManager()

	kaju := m.Add("Kaju Katli", domain.CategoryNutBased, price(50), 20)
	assert.Equal(t, int64(1001), kaju.ID)

	gajar := m.Add("Gajar Halwa", domain.CategoryVegetableBased, price(30), 15)
	assert.Equal(t, int64(1002), gajar.ID)

	require.NoError(t, m.Delete(1002))

	gulab := m.Add("Gulab Jamun", domain.CategoryMilkBased, price(10), 50)
	assert.Equal(t, int64(1002), gulab.ID)

	err := m.Purchase(1001, 25)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 20, kaju.Quantity)

	require.NoError(t, m.Purchase(1001, 20))
	assert.Equal(t, 0, kaju.Quantity)
	assert.Contains(t, ids(m.ViewAll()), int64(1001))
}

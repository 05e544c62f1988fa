package orders

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_Empty(t *testing.T) {
	st, err := Aggregate(nil, RangeMonth, base)
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalOrders)
	assert.Equal(t, 0.0, st.TotalSales)
	assert.Equal(t, 0.0, st.AverageOrderValue)
	assert.Equal(t, 0.0, st.SalesGrowth)
	assert.Empty(t, st.RecentOrders)
}

func TestAggregate_InvalidRange(t *testing.T) {
	_, err := Aggregate(sampleOrders(), TimeRange("decade"), base)
	assert.True(t, errors.Is(err, ErrInvalidTimeRange))
}

func TestAggregate_WeekScenario(t *testing.T) {
	orders := []OrderRecord{
		{ID: "a", CreatedAt: base.AddDate(0, 0, -2), Status: StatusPending, GrandTotal: money(100)},
		{ID: "b", CreatedAt: base.AddDate(0, 0, -10), Status: StatusDelivered, GrandTotal: money(200)},
	}

	st, err := Aggregate(orders, RangeWeek, base)
	require.NoError(t, err)
	assert.Equal(t, 100.0, st.TotalSales)
	assert.Equal(t, 1, st.TotalOrders)
	assert.Equal(t, 100.0, st.AverageOrderValue)
	assert.Equal(t, 1, st.PendingOrders)
	assert.Equal(t, base.AddDate(0, 0, -7), st.WindowStart)

	// b falls in the previous week: (100-200)/200*100
	assert.Equal(t, 200.0, st.PreviousSales)
	assert.InDelta(t, -50.0, st.SalesGrowth, 1e-9)
}

func TestAggregate_WindowBoundaries(t *testing.T) {
	start := base.AddDate(0, 0, -1)
	orders := []OrderRecord{
		{ID: "on-start", CreatedAt: start, GrandTotal: money(10)},
		{ID: "just-before", CreatedAt: start.Add(-time.Nanosecond), GrandTotal: money(20)},
		{ID: "prev-start", CreatedAt: start.AddDate(0, 0, -1), GrandTotal: money(40)},
		{ID: "too-old", CreatedAt: start.AddDate(0, 0, -1).Add(-time.Nanosecond), GrandTotal: money(80)},
	}

	st, err := Aggregate(orders, RangeDay, base)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalOrders)
	assert.Equal(t, 10.0, st.TotalSales)
	assert.Equal(t, 60.0, st.PreviousSales)
}

func TestAggregate_FutureDatedCountsInCurrentWindow(t *testing.T) {
	orders := []OrderRecord{
		{ID: "now", CreatedAt: base, GrandTotal: money(10)},
		{ID: "ahead", CreatedAt: base.Add(48 * time.Hour), GrandTotal: money(5)},
	}
	st, err := Aggregate(orders, RangeDay, base)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalOrders)
	assert.Equal(t, 15.0, st.TotalSales)
	assert.Equal(t, 0.0, st.PreviousSales)
}

func TestAggregate_CalendarMonth(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	orders := []OrderRecord{
		// a fixed 30-day window would also count feb-14
		{ID: "feb-16", CreatedAt: time.Date(2025, 2, 16, 9, 0, 0, 0, time.UTC), GrandTotal: money(5)},
		{ID: "feb-14", CreatedAt: time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC), GrandTotal: money(7)},
	}
	st, err := Aggregate(orders, RangeMonth, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 15, 9, 0, 0, 0, time.UTC), st.WindowStart)
	assert.Equal(t, 1, st.TotalOrders)
	assert.Equal(t, 5.0, st.TotalSales)
	assert.Equal(t, 7.0, st.PreviousSales)
}

func TestAggregate_MissingTotalsCountAsZero(t *testing.T) {
	orders := []OrderRecord{
		{ID: "a", CreatedAt: base.Add(-time.Hour)},
		{ID: "b", CreatedAt: base.Add(-2 * time.Hour), TotalAmount: money(30)},
	}
	st, err := Aggregate(orders, RangeDay, base)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalOrders)
	assert.Equal(t, 30.0, st.TotalSales)
	assert.Equal(t, 15.0, st.AverageOrderValue)
	assert.Equal(t, 0.0, st.SalesGrowth, "no previous sales means no growth figure")
}

func TestAggregate_PendingIsGlobal(t *testing.T) {
	orders := append(sampleOrders(), OrderRecord{
		ID: "old-pending", CreatedAt: base.AddDate(-3, 0, 0), Status: StatusPending,
	})

	var counts []int
	for _, r := range TimeRanges {
		st, err := Aggregate(orders, r, base)
		require.NoError(t, err)
		counts = append(counts, st.PendingOrders)
	}
	assert.Equal(t, []int{2, 2, 2, 2}, counts)
}

func TestAggregate_RecentOrders(t *testing.T) {
	var orders []OrderRecord
	// two ties at the newest instant, then older ones
	orders = append(orders,
		OrderRecord{ID: "old", CreatedAt: base.AddDate(-2, 0, 0)},
		OrderRecord{ID: "tie-1", CreatedAt: base},
		OrderRecord{ID: "m1", CreatedAt: base.Add(-time.Minute)},
		OrderRecord{ID: "tie-2", CreatedAt: base},
		OrderRecord{ID: "m2", CreatedAt: base.Add(-2 * time.Minute)},
		OrderRecord{ID: "m3", CreatedAt: base.Add(-3 * time.Minute)},
		OrderRecord{ID: "m4", CreatedAt: base.Add(-4 * time.Minute)},
	)
	before := ids(orders)

	st, err := Aggregate(orders, RangeDay, base)
	require.NoError(t, err)
	assert.Equal(t, []string{"tie-1", "tie-2", "m1", "m2", "m3"}, ids(st.RecentOrders))
	assert.Equal(t, before, ids(orders), "input order must be preserved")
}

func TestAggregator_AggregateAll(t *testing.T) {
	a := NewAggregator()
	a.nowFunc = func() time.Time { return base }

	all, err := a.AggregateAll(sampleOrders())
	require.NoError(t, err)
	require.Len(t, all, len(TimeRanges))

	// d4 (1h ago, no total) is the only order in the last day
	assert.Equal(t, 1, all[RangeDay].TotalOrders)
	assert.Equal(t, 0.0, all[RangeDay].TotalSales)
	// a1, c3, d4 in the last week
	assert.Equal(t, 3, all[RangeWeek].TotalOrders)
	assert.Equal(t, 150.0, all[RangeWeek].TotalSales)
	assert.Equal(t, 4, all[RangeMonth].TotalOrders)
	assert.Equal(t, 350.0, all[RangeYear].TotalSales)

	one, err := a.Aggregate(sampleOrders(), RangeWeek)
	require.NoError(t, err)
	assert.Equal(t, all[RangeWeek].TotalSales, one.TotalSales)
}

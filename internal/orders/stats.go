package orders

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// RecentOrdersLimit is how many orders Stats.RecentOrders holds.
const RecentOrdersLimit = 5

var ErrInvalidTimeRange = errors.New("invalid time range")

// TimeRange selects the dashboard window.
type TimeRange string

const (
	RangeDay   TimeRange = "day"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
)

// TimeRanges lists every supported range.
var TimeRanges = []TimeRange{RangeDay, RangeWeek, RangeMonth, RangeYear}

// Before returns t moved back by one range length using calendar arithmetic.
func (r TimeRange) Before(t time.Time) (time.Time, error) {
	switch r {
	case RangeDay:
		return t.AddDate(0, 0, -1), nil
	case RangeWeek:
		return t.AddDate(0, 0, -7), nil
	case RangeMonth:
		return t.AddDate(0, -1, 0), nil
	case RangeYear:
		return t.AddDate(-1, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, string(r))
}

// Stats are the dashboard figures for one window.
type Stats struct {
	TimeRange         TimeRange     `json:"timeRange"`
	WindowStart       time.Time     `json:"windowStart"`
	TotalSales        float64       `json:"totalSales"`
	TotalOrders       int           `json:"totalOrders"`
	AverageOrderValue float64       `json:"averageOrderValue"`
	PreviousSales     float64       `json:"previousSales"`
	SalesGrowth       float64       `json:"salesGrowth"`
	PendingOrders     int           `json:"pendingOrders"`
	RecentOrders      []OrderRecord `json:"recentOrders"`
}

// Aggregate computes Stats for the window ending at now.
//
// PendingOrders and RecentOrders look at the whole snapshot, not just the
// window. SalesGrowth compares against the equally long window that ends
// where the current one starts.
func Aggregate(snapshot []OrderRecord, r TimeRange, now time.Time) (Stats, error) {
	windowStart, err := r.Before(now)
	if err != nil {
		return Stats{}, err
	}
	previousStart, err := r.Before(windowStart)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{TimeRange: r, WindowStart: windowStart}
	for _, o := range snapshot {
		switch {
		case !o.CreatedAt.Before(windowStart):
			st.TotalSales += o.Amount()
			st.TotalOrders++
		case !o.CreatedAt.Before(previousStart):
			st.PreviousSales += o.Amount()
		}
		if o.Status == StatusPending {
			st.PendingOrders++
		}
	}

	if st.TotalOrders > 0 {
		st.AverageOrderValue = st.TotalSales / float64(st.TotalOrders)
	}
	if st.PreviousSales > 0 {
		st.SalesGrowth = (st.TotalSales - st.PreviousSales) / st.PreviousSales * 100
	}
	st.RecentOrders = recent(snapshot, RecentOrdersLimit)
	return st, nil
}

func recent(snapshot []OrderRecord, n int) []OrderRecord {
	sorted := make([]OrderRecord, len(snapshot))
	copy(sorted, snapshot)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Aggregator binds Aggregate to a clock.
type Aggregator struct {
	nowFunc func() time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{nowFunc: time.Now}
}

// NewAggregatorWithClock is NewAggregator with an injected clock.
func NewAggregatorWithClock(now func() time.Time) *Aggregator {
	return &Aggregator{nowFunc: now}
}

// Aggregate runs the package-level Aggregate at the aggregator's current time.
func (a *Aggregator) Aggregate(snapshot []OrderRecord, r TimeRange) (Stats, error) {
	return Aggregate(snapshot, r, a.nowFunc())
}

// AggregateAll computes Stats for every range against a single instant.
func (a *Aggregator) AggregateAll(snapshot []OrderRecord) (map[TimeRange]Stats, error) {
	now := a.nowFunc()
	out := make(map[TimeRange]Stats, len(TimeRanges))
	for _, r := range TimeRanges {
		st, err := Aggregate(snapshot, r, now)
		if err != nil {
			return nil, err
		}
		out[r] = st
	}
	return out, nil
}

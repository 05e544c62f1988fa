package validation

import (
	"fmt"
	"time"

	"github.com/imrishuroy/go-order-insights/internal/orders"
)

// ToQueryParams converts a validated request into engine parameters.
// Dates are read as UTC calendar days.
func (r OrdersQueryRequest) ToQueryParams() (orders.QueryParams, error) {
	p := orders.QueryParams{
		SearchText:    r.Search,
		Status:        orders.Status(r.Status),
		PaymentStatus: orders.PaymentStatus(r.PaymentStatus),
		PaymentMethod: r.PaymentMethod,
		SortBy:        orders.SortField(r.SortBy),
		SortOrder:     orders.SortOrder(r.SortOrder),
	}
	if r.Page != nil {
		p.Page = *r.Page
	}
	if r.PageSize != nil {
		p.PageSize = *r.PageSize
	}

	var err error
	if p.StartDate, err = parseDate(r.StartDate); err != nil {
		return orders.QueryParams{}, err
	}
	if p.EndDate, err = parseDate(r.EndDate); err != nil {
		return orders.QueryParams{}, err
	}
	return p, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", orders.ErrInvalidQuery, s)
	}
	return &t, nil
}

// Range returns the requested stats window, month when unset.
func (r StatsRequest) Range() orders.TimeRange {
	if r.TimeRange == "" {
		return orders.RangeMonth
	}
	return orders.TimeRange(r.TimeRange)
}

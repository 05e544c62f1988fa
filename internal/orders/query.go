package orders

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultPageSize is used when QueryParams.PageSize is zero.
const DefaultPageSize = 10

// ErrInvalidQuery is returned for malformed query parameters.
var ErrInvalidQuery = errors.New("invalid query")

// SortField names an OrderRecord attribute the engine can order by.
type SortField string

const (
	SortByCreatedAt     SortField = "createdAt"
	SortByGrandTotal    SortField = "grandTotal"
	SortByStatus        SortField = "status"
	SortByPaymentStatus SortField = "paymentStatus"
	SortByPaymentMethod SortField = "paymentMethod"
	SortByOrderNumber   SortField = "orderNumber"
	SortByCustomer      SortField = "customer"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// QueryParams drives Query. Zero values mean "no filter" or "use the default".
type QueryParams struct {
	SearchText    string
	Status        Status
	PaymentStatus PaymentStatus
	PaymentMethod string
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        SortField
	SortOrder     SortOrder
	Page          int
	PageSize      int
}

// QueryResult is one page of the filtered, sorted collection.
type QueryResult struct {
	Orders     []OrderRecord
	TotalCount int
	Page       int
	PageSize   int
}

// TotalPages is ceil(TotalCount/PageSize), never less than 1.
func (r QueryResult) TotalPages() int {
	if r.PageSize <= 0 || r.TotalCount <= 0 {
		return 1
	}
	return 1 + (r.TotalCount-1)/r.PageSize
}

func (p QueryParams) normalized() (QueryParams, error) {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.Page < 1 {
		return p, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidQuery, p.Page)
	}
	if p.PageSize < 1 {
		return p, fmt.Errorf("%w: page size must be >= 1, got %d", ErrInvalidQuery, p.PageSize)
	}
	if p.SortBy == "" {
		p.SortBy = SortByCreatedAt
	}
	if p.SortOrder == "" {
		p.SortOrder = SortDesc
	}
	if _, ok := comparators[p.SortBy]; !ok {
		return p, fmt.Errorf("%w: unknown sort field %q", ErrInvalidQuery, p.SortBy)
	}
	if p.SortOrder != SortAsc && p.SortOrder != SortDesc {
		return p, fmt.Errorf("%w: unknown sort order %q", ErrInvalidQuery, p.SortOrder)
	}
	return p, nil
}

// Query filters, sorts and paginates snapshot. snapshot is not modified.
func Query(snapshot []OrderRecord, params QueryParams) (QueryResult, error) {
	p, err := params.normalized()
	if err != nil {
		return QueryResult{}, err
	}

	match := p.predicate()
	filtered := make([]OrderRecord, 0, len(snapshot))
	for _, o := range snapshot {
		if match(o) {
			filtered = append(filtered, o)
		}
	}

	cmp := comparators[p.SortBy]
	if p.SortOrder == SortAsc {
		sort.SliceStable(filtered, func(i, j int) bool { return cmp(filtered[i], filtered[j]) < 0 })
	} else {
		sort.SliceStable(filtered, func(i, j int) bool { return cmp(filtered[i], filtered[j]) > 0 })
	}

	res := QueryResult{
		Orders:     []OrderRecord{},
		TotalCount: len(filtered),
		Page:       p.Page,
		PageSize:   p.PageSize,
	}
	// compare page counts before multiplying so huge values cannot overflow
	if p.Page-1 >= res.TotalPages() || len(filtered) == 0 {
		return res, nil
	}
	start := (p.Page - 1) * p.PageSize
	end := len(filtered)
	if end-start > p.PageSize {
		end = start + p.PageSize
	}
	res.Orders = filtered[start:end]
	return res, nil
}

// predicate ANDs every active filter.
func (p QueryParams) predicate() func(OrderRecord) bool {
	var checks []func(OrderRecord) bool

	if needle := strings.ToLower(strings.TrimSpace(p.SearchText)); needle != "" {
		checks = append(checks, func(o OrderRecord) bool {
			for _, v := range searchFields(o) {
				if v != "" && strings.Contains(strings.ToLower(v), needle) {
					return true
				}
			}
			return false
		})
	}
	if p.Status != "" {
		checks = append(checks, func(o OrderRecord) bool { return o.Status == p.Status })
	}
	if p.PaymentStatus != "" {
		checks = append(checks, func(o OrderRecord) bool { return o.PaymentStatus == p.PaymentStatus })
	}
	if p.PaymentMethod != "" {
		checks = append(checks, func(o OrderRecord) bool { return o.PaymentMethod == p.PaymentMethod })
	}
	if p.StartDate != nil {
		from := startOfDay(*p.StartDate)
		checks = append(checks, func(o OrderRecord) bool { return !o.CreatedAt.Before(from) })
	}
	if p.EndDate != nil {
		to := endOfDay(*p.EndDate)
		checks = append(checks, func(o OrderRecord) bool { return !o.CreatedAt.After(to) })
	}

	return func(o OrderRecord) bool {
		for _, c := range checks {
			if !c(o) {
				return false
			}
		}
		return true
	}
}

func searchFields(o OrderRecord) []string {
	fields := []string{o.OrderNumber, o.Receipt}
	if o.ShippingAddress != nil {
		fields = append(fields, o.ShippingAddress.Name)
	}
	if o.User != nil {
		fields = append(fields, o.User.Name, o.User.Email)
	}
	return fields
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// comparators return <0, 0, >0. Missing values order before present ones.
var comparators = map[SortField]func(a, b OrderRecord) int{
	SortByCreatedAt: func(a, b OrderRecord) int {
		return compareTime(a.CreatedAt, b.CreatedAt)
	},
	SortByGrandTotal: func(a, b OrderRecord) int {
		switch {
		case !a.hasAmount() && !b.hasAmount():
			return 0
		case !a.hasAmount():
			return -1
		case !b.hasAmount():
			return 1
		}
		return compareFloat(a.Amount(), b.Amount())
	},
	SortByStatus: func(a, b OrderRecord) int {
		return compareString(string(a.Status), string(b.Status))
	},
	SortByPaymentStatus: func(a, b OrderRecord) int {
		return compareString(string(a.PaymentStatus), string(b.PaymentStatus))
	},
	SortByPaymentMethod: func(a, b OrderRecord) int {
		return compareString(a.PaymentMethod, b.PaymentMethod)
	},
	SortByOrderNumber: func(a, b OrderRecord) int {
		return compareString(a.OrderNumber, b.OrderNumber)
	},
	SortByCustomer: func(a, b OrderRecord) int {
		return compareString(a.CustomerName(), b.CustomerName())
	},
}

// compareString treats "" as missing.
func compareString(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}
	return strings.Compare(a, b)
}

// compareTime treats the zero time as missing.
func compareTime(a, b time.Time) int {
	switch {
	case a.Equal(b):
		return 0
	case a.IsZero():
		return -1
	case b.IsZero():
		return 1
	case a.Before(b):
		return -1
	}
	return 1
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

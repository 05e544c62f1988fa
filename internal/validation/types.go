package validation

// DateLayout is the format of startDate and endDate query values.
const DateLayout = "2006-01-02"

// OrdersQueryRequest is the query string of GET /admin/orders.
type OrdersQueryRequest struct {
	Search        string `form:"search"`
	Status        string `form:"status"`        // matched literally; unknown values simply match nothing
	PaymentStatus string `form:"paymentStatus"` // matched literally
	PaymentMethod string `form:"paymentMethod"`
	StartDate     string `form:"startDate" validate:"omitempty,datetime=2006-01-02"` // inclusive, whole day
	EndDate       string `form:"endDate" validate:"omitempty,datetime=2006-01-02"`   // inclusive, whole day
	SortBy        string `form:"sortBy" validate:"omitempty,oneof=createdAt grandTotal status paymentStatus paymentMethod orderNumber customer"`
	SortOrder     string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page          *int   `form:"page" validate:"omitempty,min=1"`
	PageSize      *int   `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// StatsRequest is the query string of GET /admin/stats.
type StatsRequest struct {
	TimeRange string `form:"timeRange" validate:"omitempty,oneof=day week month year"`
}

// StatusUpdateRequest is the body of PUT /admin/orders/:id/status.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

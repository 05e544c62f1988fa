package main

// CloudWatch metric names, one datum per TimeRange dimension.
const (
	MetricTotalSales        = "TotalSales"
	MetricTotalOrders       = "TotalOrders"
	MetricAverageOrderValue = "AverageOrderValue"
	MetricPendingOrders     = "PendingOrders"
	MetricSalesGrowth       = "SalesGrowth"

	DimensionTimeRange = "TimeRange"
)

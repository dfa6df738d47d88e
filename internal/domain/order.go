package domain

// A production order: a request to manufacture Quantity units of a product.
type Order struct {
	ID           int64
	TenantID     string
	OrderNumber  string
	ProductID    int64
	Quantity     int
	DeadlineDate string
}

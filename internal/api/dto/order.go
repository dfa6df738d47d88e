package dto

type OrderRequest struct {
	OrderNumber  string `json:"order_number"`
	ProductID    int64  `json:"product_id"`
	Quantity     int    `json:"quantity"`
	DeadlineDate string `json:"deadline_date"`
}

type OrderPatchRequest struct {
	OrderNumber  *string `json:"order_number"`
	ProductID    *int64  `json:"product_id"`
	Quantity     *int    `json:"quantity"`
	DeadlineDate *string `json:"deadline_date"`
}

type OrderResponse struct {
	ID           int64  `json:"id"`
	OrderNumber  string `json:"order_number"`
	ProductID    int64  `json:"product_id"`
	Quantity     int    `json:"quantity"`
	DeadlineDate string `json:"deadline_date"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

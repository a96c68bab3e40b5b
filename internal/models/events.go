package models

import "time"

// OrderPaidEvent публикуется при переходе заказа в статус paid.
type OrderPaidEvent struct {
	OrderID       string    `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	PackageName   string    `json:"package_name"`
	Amount        int64     `json:"amount"`
	ExpiryDate    time.Time `json:"expiry_date"`
}

// CommissionPaidEvent публикуется при выплате комиссии продавцу.
type CommissionPaidEvent struct {
	CommissionID  string `json:"commission_id"`
	ResellerEmail string `json:"reseller_email"`
	ResellerName  string `json:"reseller_name"`
	Percent       int    `json:"percent"`
	Amount        int64  `json:"amount"`
}

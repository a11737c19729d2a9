package dto

import "github.com/shopspring/decimal"

// Response is the uniform envelope every synchronous endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func OK(data any) *Response {
	return &Response{Success: true, Data: data}
}

func Fail(message string) *Response {
	return &Response{Success: false, Message: message}
}

type Item struct {
	Sku      string `json:"sku"`
	Quantity int32  `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []*Item `json:"items"`
}

type CreateCustomOrderRequest struct {
	GarmentType string          `json:"garment_type"`
	GarmentSize string          `json:"garment_size"`
	Color       string          `json:"color"`
	DesignURL   string          `json:"design_url"`
	Total       decimal.Decimal `json:"total"`

	RecipientName string `json:"recipient_name"`
	AddressLine1  string `json:"address_line1"`
	City          string `json:"city"`
	PostCode      string `json:"post_code"`
	Country       string `json:"country"`
}

type CreateQuoteRequest struct {
	UserID      string          `json:"user_id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type CheckoutResponse struct {
	Order       any    `json:"order"`
	CheckoutURL string `json:"checkout_url"`
}

type RegisterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type LoginLinkResponse struct {
	URL string `json:"url"`
}

type BalanceResponse struct {
	Available decimal.Decimal `json:"available"`
	Pending   decimal.Decimal `json:"pending"`
	Currency  string          `json:"currency"`
}

package client

import (
	"context"
	"fmt"
	"time"

	"partyhub-backend/internal/config"

	"github.com/go-resty/resty/v2"
)

type GelatoRecipient struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	PostCode     string `json:"postCode"`
	Country      string `json:"country"`
}

type GelatoOrderItem struct {
	ProductUID string   `json:"productUid"`
	FileURLs   []string `json:"fileUrls"`
	Quantity   int      `json:"quantity"`
}

type GelatoOrderRequest struct {
	OrderReferenceID string            `json:"orderReferenceId"`
	Currency         string            `json:"currency"`
	Items            []GelatoOrderItem `json:"items"`
	ShippingAddress  GelatoRecipient   `json:"shippingAddress"`
}

type GelatoOrderResponse struct {
	ID                string `json:"id"`
	FulfillmentStatus string `json:"fulfillmentStatus"`
}

type gelatoProduct struct {
	ProductUID string            `json:"productUid"`
	Attributes map[string]string `json:"attributes"`
}

type gelatoProductSearchResponse struct {
	Products []gelatoProduct `json:"products"`
}

type GelatoClient interface {
	// ResolveProductUID maps a garment spec onto the provider's opaque
	// product uid.
	ResolveProductUID(ctx context.Context, garmentType, size, color string) (string, error)
	CreateOrder(ctx context.Context, req *GelatoOrderRequest) (*GelatoOrderResponse, error)
}

type gelatoClientImpl struct {
	http *resty.Client
}

func NewGelatoClient(cfg *config.Gelato) GelatoClient {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseApiURL).
		SetHeader("X-API-KEY", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	return &gelatoClientImpl{http: httpClient}
}

func (c *gelatoClientImpl) ResolveProductUID(ctx context.Context, garmentType, size, color string) (string, error) {
	var result gelatoProductSearchResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"attributeFilters": map[string][]string{
				"GarmentType":  {garmentType},
				"GarmentSize":  {size},
				"GarmentColor": {color},
			},
			"limit": 1,
		}).
		SetResult(&result).
		Post("/v3/catalogs/apparel/products:search")
	if err != nil {
		return "", fmt.Errorf("gelato product search: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gelato product search: status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(result.Products) == 0 {
		return "", fmt.Errorf("no gelato product for type=%s size=%s color=%s", garmentType, size, color)
	}

	return result.Products[0].ProductUID, nil
}

func (c *gelatoClientImpl) CreateOrder(ctx context.Context, req *GelatoOrderRequest) (*GelatoOrderResponse, error) {
	var result GelatoOrderResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/v4/orders")
	if err != nil {
		return nil, fmt.Errorf("gelato create order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gelato create order: status %d: %s", resp.StatusCode(), resp.String())
	}

	return &result, nil
}

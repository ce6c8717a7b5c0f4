package domain

import "time"

// PriceType distinguishes base prices from add-on surcharges.
type PriceType string

const (
	PriceTypeBase       PriceType = "base"
	PriceTypeAdditional PriceType = "additional"
)

// WidgetType controls how an attribute is rendered by clients.
type WidgetType string

const (
	WidgetSwitch WidgetType = "switch"
	WidgetRadio  WidgetType = "radio"
)

// CategoryPrice describes one configurable price dimension of a category,
// e.g. "Size" with options Small/Medium/Large.
type CategoryPrice struct {
	PriceType        PriceType `json:"priceType"`
	AvailableOptions []string  `json:"availableOptions"`
}

// CategoryAttribute is a non-price product property, e.g. "isHit".
type CategoryAttribute struct {
	Name             string     `json:"name"`
	WidgetType       WidgetType `json:"widgetType"`
	DefaultValue     string     `json:"defaultValue"`
	AvailableOptions []string   `json:"availableOptions"`
}

type Category struct {
	ID                 string                   `json:"id"`
	Name               string                   `json:"name"`
	PriceConfiguration map[string]CategoryPrice `json:"priceConfiguration"`
	Attributes         []CategoryAttribute      `json:"attributes"`
}

// ProductPrice holds the concrete prices a product assigns to one of its
// category's price dimensions.
type ProductPrice struct {
	PriceType        PriceType          `json:"priceType"`
	AvailableOptions map[string]float64 `json:"availableOptions"`
}

// ProductAttribute is a chosen value for a category attribute.
type ProductAttribute struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type Product struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	Description        string                  `json:"description"`
	Image              string                  `json:"image"`
	CategoryID         string                  `json:"categoryId"`
	StoreID            string                  `json:"storeId"`
	IsPublish          bool                    `json:"isPublish"`
	PriceConfiguration map[string]ProductPrice `json:"priceConfiguration"`
	Attributes         []ProductAttribute      `json:"attributes"`
	CreatedAt          time.Time               `json:"createdAt"`
}

// CreateProduct is the payload for creating or updating a product. The image
// travels as a multipart file part; priceConfiguration and attributes are
// JSON-encoded form fields.
type CreateProduct struct {
	Name               string
	Description        string
	CategoryID         string
	StoreID            string
	IsPublish          bool
	PriceConfiguration map[string]ProductPrice
	Attributes         []ProductAttribute
	ImageName          string
	Image              []byte
}

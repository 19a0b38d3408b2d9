package domain

// MappingEntry links an external catalog product name to platform identifiers.
// Both identifiers are optional.
type MappingEntry struct {
	Brand        string `json:"brand"`
	ExternalName string `json:"externalProductName"`
	ProductID    *int64 `json:"platformProductId,omitempty"`
	VariantID    *int64 `json:"platformVariantId,omitempty"`
}

// PlatformProduct is a product from the platform catalog feed.
type PlatformProduct struct {
	ID       int64
	Title    string
	Vendor   string
	Handle   string
	Variants []PlatformVariant
}

// PlatformVariant carries price and the three independent availability signals.
// Prices keep the feed's raw JSON value (string, number or nil). Nil pointers
// mean the feed omitted the field.
type PlatformVariant struct {
	ID                int64
	ProductID         int64
	Title             string
	Price             interface{}
	CompareAtPrice    interface{}
	Available         *bool
	InventoryQuantity *int
	InventoryPolicy   string
}

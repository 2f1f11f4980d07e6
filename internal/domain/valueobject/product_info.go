package valueobject

// ProductInfo is a snapshot of the product captured when a sale line is added.
// Same snapshot semantics as CustomerInfo.
type ProductInfo struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// NewProductInfo creates a product snapshot.
func NewProductInfo(id, name string) ProductInfo {
	return ProductInfo{ID: id, Name: name}
}

// Equals compares two snapshots by all fields.
func (p ProductInfo) Equals(other ProductInfo) bool {
	return p == other
}

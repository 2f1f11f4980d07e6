package valueobject

// CustomerInfo is a snapshot of the customer captured when a sale is created.
// It is deliberately decoupled from the live user record: later changes to the
// user do not affect historical sales.
type CustomerInfo struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

// NewCustomerInfo creates a customer snapshot.
func NewCustomerInfo(id, name, email string) CustomerInfo {
	return CustomerInfo{ID: id, Name: name, Email: email}
}

// Equals compares two snapshots by all fields.
func (c CustomerInfo) Equals(other CustomerInfo) bool {
	return c == other
}

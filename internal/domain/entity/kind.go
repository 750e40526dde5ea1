package entity

// Kind tags each persistable entity kind with a stable identifier.
// Display names are resolved through a static mapping instead of
// runtime type introspection.
type Kind string

const (
	KindCategory  Kind = "category"
	KindProduct   Kind = "product"
	KindSelection Kind = "selection"
	KindLineItem  Kind = "line_item"
	KindOrder     Kind = "order"
	KindUser      Kind = "user"
)

var kindDisplayNames = map[Kind]string{
	KindCategory:  "Category",
	KindProduct:   "Product",
	KindSelection: "Selection",
	KindLineItem:  "Selected product",
	KindOrder:     "Order",
	KindUser:      "User",
}

// DisplayName returns the human-readable name for the kind,
// falling back to the raw tag for unknown kinds.
func (k Kind) DisplayName() string {
	if name, ok := kindDisplayNames[k]; ok {
		return name
	}

	return string(k)
}

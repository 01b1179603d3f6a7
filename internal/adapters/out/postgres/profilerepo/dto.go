// Package profilerepo reads the customer and restaurant records the
// ordering core depends on: stored delivery coordinates, addresses, and
// contact phones. These tables are owned by the account system; this
// package only ever reads them.
package profilerepo

// CustomerDTO is the slice of the customer record used at order creation.
// Coordinates are nullable because profiles may predate location capture;
// a customer without coordinates cannot place an order.
type CustomerDTO struct {
	ID      int64 `gorm:"primaryKey"`
	Name    string
	Phone   string
	Address string
	Lat     *float64
	Lng     *float64
}

// TableName overrides GORM's default naming to use "customers".
func (CustomerDTO) TableName() string {
	return "customers"
}

// RestaurantDTO is the slice of the restaurant record used at order creation.
type RestaurantDTO struct {
	ID    int64 `gorm:"primaryKey"`
	Name  string
	Phone string
}

// TableName overrides GORM's default naming to use "restaurants".
func (RestaurantDTO) TableName() string {
	return "restaurants"
}

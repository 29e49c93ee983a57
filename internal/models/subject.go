package models

// Subject is a bookable resource: a staff member or a vendor.
type Subject struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Role      string `json:"role" yaml:"role"` // staff, vendor
	Active    bool   `json:"active" yaml:"active"`
	SortOrder int64  `json:"sort_order" yaml:"sort_order"`
}

package types

// PropertyStatus is the occupancy state of a property
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusOccupied    PropertyStatus = "occupied"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
	// PropertyStatusOffline properties are withdrawn from the platform; the
	// scheduling engines skip their leases and payments entirely.
	PropertyStatusOffline PropertyStatus = "offline"
)

// PropertyType categorizes a rental property
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeStudio     PropertyType = "studio"
	PropertyTypeCommercial PropertyType = "commercial"
)

package entity

// AmenityType enumerates the amenity kinds a property can advertise
type AmenityType string

const (
	AmenityWifi           AmenityType = "wifi"
	AmenityParking        AmenityType = "parking"
	AmenityPool           AmenityType = "pool"
	AmenityKitchen        AmenityType = "kitchen"
	AmenityAirConditioner AmenityType = "airconditioner"
	AmenityPetsAllowed    AmenityType = "petsAllowed"
)

// Address represents a property address
type Address struct {
	Street     string   `json:"street"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	PostalCode string   `json:"postalCode"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// Amenity represents a single amenity of a property
type Amenity struct {
	Type        AmenityType `json:"type"`
	Description string      `json:"description"`
	Amount      *int        `json:"amount,omitempty"`
}

// Property represents a rentable property
type Property struct {
	Id            string    `json:"id"`
	OwnerId       string    `json:"owner"`
	Name          string    `json:"name"`
	Address       Address   `json:"address"`
	PricePerNight float64   `json:"pricePerNight"`
	MaxGuests     int       `json:"maxGuests"`
	Available     bool      `json:"available"`
	Amenities     []Amenity `json:"amenities,omitempty"`
	ImagePaths    []string  `json:"imagePaths,omitempty"`
}

// PropertySummary is the reduced property projection carried inside a BookingChat
type PropertySummary struct {
	Id    string      `json:"id"`
	Name  string      `json:"name"`
	Owner UserSummary `json:"owner"`
}

// Summary returns the chat projection of the property
func (p *Property) Summary(owner UserSummary) PropertySummary {
	return PropertySummary{
		Id:    p.Id,
		Name:  p.Name,
		Owner: owner,
	}
}

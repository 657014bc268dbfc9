package models

// SortOption orders a filtered car list.
type SortOption string

const (
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortYearAsc   SortOption = "year-asc"
	SortYearDesc  SortOption = "year-desc"
	SortKmAsc     SortOption = "km-asc"
	SortKmDesc    SortOption = "km-desc"
)

// FilterOptions holds the public listing filters. Zero values mean "no bound".
type FilterOptions struct {
	Brand            string     `json:"brand" query:"brand"`
	Model            string     `json:"model" query:"model"`
	MinYear          int        `json:"minYear" query:"minYear" validate:"gte=0"`
	MaxYear          int        `json:"maxYear" query:"maxYear" validate:"gte=0"`
	MinPrice         float64    `json:"minPrice" query:"minPrice" validate:"gte=0"`
	MaxPrice         float64    `json:"maxPrice" query:"maxPrice" validate:"gte=0"`
	MinKm            int        `json:"minKm" query:"minKm" validate:"gte=0"`
	MaxKm            int        `json:"maxKm" query:"maxKm" validate:"gte=0"`
	FuelType         string     `json:"fuelType" query:"fuelType" validate:"omitempty,oneof=Benzin Dizel Hibrit Elektrik LPG"`
	TransmissionType string     `json:"transmissionType" query:"transmissionType" validate:"omitempty,oneof=Manuel Otomatik"`
	SortBy           SortOption `json:"sortBy" query:"sortBy" validate:"omitempty,oneof=price-asc price-desc year-asc year-desc km-asc km-desc"`
}

// CarQuery is the equality subset of a filter that the store evaluates.
type CarQuery struct {
	Status           CarStatus
	Brand            string
	FuelType         string
	TransmissionType string
	Featured         *bool
	Limit            int
}

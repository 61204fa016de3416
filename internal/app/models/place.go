package models

// Category is the fixed classification a Place is rendered with.
type Category string

const (
	CategoryGroceries Category = "groceries"
	CategoryClothing  Category = "clothing"
	CategoryGas       Category = "gas"
	CategoryOther     Category = "other"
)

// Placeholder values used when the provider omits a field.
const (
	DefaultTitle   = "Untitled Place"
	DefaultSummary = "No summary available."
	DefaultProduct = "N/A"
	DefaultPrice   = "N/A"
	DefaultURI     = "#"
)

// Place is a normalized search result ready for the list and the map.
type Place struct {
	Title    string     `json:"title"`
	Summary  string     `json:"summary"`
	Product  string     `json:"product"`
	Price    string     `json:"price"`
	Category Category   `json:"category"`
	Location Coordinate `json:"location"`
	URI      string     `json:"uri"`
}

// ResponseKind selects the provider request variant and the matching parser.
type ResponseKind string

const (
	// ResponseGrounded pairs provider map search results with generated attributes.
	ResponseGrounded ResponseKind = "grounded"
	// ResponseGenerated expects the provider to produce every field itself.
	ResponseGenerated ResponseKind = "generated"
)

// SearchRequest is built once per search and discarded after normalization.
type SearchRequest struct {
	Query    string
	Location LocationMode
	Kind     ResponseKind
	Model    string
	Prompt   string
}

// GroundingPlace is one map search result returned alongside a grounded response.
type GroundingPlace struct {
	Title  string  `json:"title,omitempty"`
	URI    string  `json:"uri,omitempty"`
	LatLng *LatLng `json:"latLng,omitempty"`
}

// LatLng keeps both halves optional so a missing coordinate can be told apart from zero.
type LatLng struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// RawProviderResponse is the provider payload before normalization.
type RawProviderResponse struct {
	Text      string
	Grounding []GroundingPlace
}

// Coordinate returns the entry's point when both halves are present and valid.
func (g GroundingPlace) Coordinate() (Coordinate, bool) {
	if g.LatLng == nil || g.LatLng.Latitude == nil || g.LatLng.Longitude == nil {
		return Coordinate{}, false
	}
	c := Coordinate{Latitude: *g.LatLng.Latitude, Longitude: *g.LatLng.Longitude}
	return c, c.Valid()
}

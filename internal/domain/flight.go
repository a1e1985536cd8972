package domain

type Flight struct {
	ID            string  `json:"_id"`
	Airline       string  `json:"airline"`
	FlightNumber  string  `json:"flightNumber"`
	Source        string  `json:"source"`
	Destination   string  `json:"destination"`
	Date          string  `json:"date"`
	DepartureTime string  `json:"departureTime"`
	ArrivalTime   string  `json:"arrivalTime"`
	Price         float64 `json:"price"`
}

// FlightFilter holds exact-match criteria. Empty fields impose no constraint.
type FlightFilter struct {
	Source      string
	Destination string
	Date        string
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sortable flight fields, keyed by their wire name.
const (
	FlightFieldID            = "_id"
	FlightFieldAirline       = "airline"
	FlightFieldFlightNumber  = "flightNumber"
	FlightFieldSource        = "source"
	FlightFieldDestination   = "destination"
	FlightFieldDate          = "date"
	FlightFieldDepartureTime = "departureTime"
	FlightFieldArrivalTime   = "arrivalTime"
	FlightFieldPrice         = "price"
)

var flightFields = map[string]struct{}{
	FlightFieldID:            {},
	FlightFieldAirline:       {},
	FlightFieldFlightNumber:  {},
	FlightFieldSource:        {},
	FlightFieldDestination:   {},
	FlightFieldDate:          {},
	FlightFieldDepartureTime: {},
	FlightFieldArrivalTime:   {},
	FlightFieldPrice:         {},
}

func IsFlightField(name string) bool {
	_, ok := flightFields[name]
	return ok
}

// FlightQuery is a filtered, sorted and sliced read of the flight store.
type FlightQuery struct {
	Filter FlightFilter
	SortBy string
	Order  SortOrder
	Skip   int64
	Limit  int64
}

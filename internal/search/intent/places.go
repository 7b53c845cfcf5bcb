package intent

import "github.com/mycosoft/unified-search/internal/search/types"

const (
	cityRadiusKm       = 100
	stateRadiusKm      = 300
	coordinateRadiusKm = 50
)

type place struct {
	name    string // lowercase match key
	city    string
	state   string
	country string
	lat     float64
	lng     float64
	radius  float64
}

func (p place) filter() *types.LocationFilter {
	return &types.LocationFilter{
		City:    p.city,
		State:   p.state,
		Country: p.country,
		Lat:     p.lat,
		Lng:     p.lng,
		Radius:  p.radius,
	}
}

// cities are checked before states; longer names first where one contains another
var cities = []place{
	{"san diego", "San Diego", "CA", "US", 32.7157, -117.1611, cityRadiusKm},
	{"los angeles", "Los Angeles", "CA", "US", 34.0522, -118.2437, cityRadiusKm},
	{"san francisco", "San Francisco", "CA", "US", 37.7749, -122.4194, cityRadiusKm},
	{"sacramento", "Sacramento", "CA", "US", 38.5816, -121.4944, cityRadiusKm},
	{"seattle", "Seattle", "WA", "US", 47.6062, -122.3321, cityRadiusKm},
	{"portland", "Portland", "OR", "US", 45.5152, -122.6784, cityRadiusKm},
	{"denver", "Denver", "CO", "US", 39.7392, -104.9903, cityRadiusKm},
	{"phoenix", "Phoenix", "AZ", "US", 33.4484, -112.0740, cityRadiusKm},
	{"austin", "Austin", "TX", "US", 30.2672, -97.7431, cityRadiusKm},
	{"chicago", "Chicago", "IL", "US", 41.8781, -87.6298, cityRadiusKm},
	{"new york", "New York", "NY", "US", 40.7128, -74.0060, cityRadiusKm},
	{"boston", "Boston", "MA", "US", 42.3601, -71.0589, cityRadiusKm},
	{"asheville", "Asheville", "NC", "US", 35.5951, -82.5515, cityRadiusKm},
	{"vancouver", "Vancouver", "BC", "CA", 49.2827, -123.1207, cityRadiusKm},
	{"london", "London", "", "GB", 51.5074, -0.1278, cityRadiusKm},
}

var states = []place{
	{"california", "", "CA", "US", 36.7783, -119.4179, stateRadiusKm},
	{"oregon", "", "OR", "US", 43.8041, -120.5542, stateRadiusKm},
	{"washington", "", "WA", "US", 47.7511, -120.7401, stateRadiusKm},
	{"colorado", "", "CO", "US", 39.5501, -105.7821, stateRadiusKm},
	{"arizona", "", "AZ", "US", 34.0489, -111.0937, stateRadiusKm},
	{"texas", "", "TX", "US", 31.9686, -99.9018, stateRadiusKm},
	{"florida", "", "FL", "US", 27.6648, -81.5158, stateRadiusKm},
	{"michigan", "", "MI", "US", 44.3148, -85.6024, stateRadiusKm},
	{"north carolina", "", "NC", "US", 35.7596, -79.0193, stateRadiusKm},
}

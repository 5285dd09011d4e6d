package streetnet

type DrivingSide uint16

const (
	DRIVING_SIDE_RIGHT = DrivingSide(iota + 1)
	DRIVING_SIDE_LEFT
)

func (iotaIdx DrivingSide) String() string {
	return [...]string{"right", "left"}[iotaIdx-1]
}

// MapConfig controls lane inference and network assembly.
type MapConfig struct {
	DrivingSide         DrivingSide `json:"driving_side"`
	BikesCanUseBusLanes bool        `json:"bikes_can_use_bus_lanes"`
	InferredSidewalks   bool        `json:"inferred_sidewalks"`
	InferredKerbs       bool        `json:"inferred_kerbs"`
	CountryCode         string      `json:"country_code"`
}

func DefaultMapConfig() *MapConfig {
	return &MapConfig{
		DrivingSide:         DRIVING_SIDE_RIGHT,
		BikesCanUseBusLanes: false,
		InferredSidewalks:   true,
		InferredKerbs:       true,
		CountryCode:         "US",
	}
}

type mapConfigOption func(*MapConfig)

// NewMapConfig builds a config from the defaults plus the given options.
func NewMapConfig(options ...mapConfigOption) *MapConfig {
	config := DefaultMapConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

func WithDrivingSide(drivingSide DrivingSide) mapConfigOption {
	return func(config *MapConfig) {
		config.DrivingSide = drivingSide
	}
}

func WithBikesCanUseBusLanes(allowed bool) mapConfigOption {
	return func(config *MapConfig) {
		config.BikesCanUseBusLanes = allowed
	}
}

func WithInferredSidewalks(inferred bool) mapConfigOption {
	return func(config *MapConfig) {
		config.InferredSidewalks = inferred
	}
}

func WithInferredKerbs(inferred bool) mapConfigOption {
	return func(config *MapConfig) {
		config.InferredKerbs = inferred
	}
}

func WithCountryCode(countryCode string) mapConfigOption {
	return func(config *MapConfig) {
		config.CountryCode = countryCode
	}
}

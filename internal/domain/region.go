package domain

// Region names an independently re-rendered section of the widget.
type Region string

const (
	RegionProducts Region = "products"
	RegionCart     Region = "cart"
	RegionTotal    Region = "total"
	RegionError    Region = "error"
)

// Regions lists every region in render order.
var Regions = []Region{RegionProducts, RegionCart, RegionTotal, RegionError}

// ParseRegion maps a region name to its Region.
func ParseRegion(name string) (Region, bool) {
	for _, r := range Regions {
		if string(r) == name {
			return r, true
		}
	}
	return "", false
}

// Notifier is called by the stores after a mutation with the regions whose
// content depends on the mutated state.
type Notifier func(regions ...Region)

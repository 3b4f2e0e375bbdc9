// Package model holds the data types shared by the problem builder, the
// solver, the re-planning engines and the HTTP layer.
package model

// OrderKind distinguishes a delivery (outbound volume) from a pickup
// (inbound volume).
type OrderKind string

const (
	Delivery OrderKind = "delivery"
	Pickup   OrderKind = "pickup"
)

// Point is a geographic coordinate.
type Point struct {
	Longitude float64
	Latitude  float64
}

// Depot is the single warehouse all trips start and end at.
type Depot struct {
	ID    string
	Point Point
}

// Order is a delivery or pickup consignment.
type Order struct {
	ID            string
	Kind          OrderKind
	Point         Point
	ExpectedTime  int // seconds since midnight
	PackageVolume int // >= 0, as supplied by the client
	ServiceTime   int // seconds, >= 0
}

// SignedVolume returns the order's contribution to the capacity
// dimension: positive for deliveries (carried outward), negative for
// pickups (carried inward).
func (o Order) SignedVolume() int {
	if o.Kind == Pickup {
		return -o.PackageVolume
	}
	return o.PackageVolume
}

// Rider is one vehicle in the fleet.
type Rider struct {
	ID         string
	Capacity   int
	StartTime  int
	// CurrentTours holds the rider's in-progress plan as submitted by the
	// client on update requests. CurrentTours[0] is the current trip.
	CurrentTours []Trip
	// TourLocation is the index, within CurrentTours[0], of the next
	// not-yet-visited stop; -1 if the rider is idle (no current trip).
	TourLocation int
}

// Stop is one entry of a trip: either the depot or an order, with an
// absolute clock time.
type Stop struct {
	NodeID string // depot id or order id
	Time   int    // absolute seconds since midnight
}

// Trip is one depot-to-depot loop.
type Trip struct {
	Stops []Stop
}

// Plan is the per-rider ordered list of trips returned to, and accepted
// back from, the client.
type Plan struct {
	RiderPlans []RiderPlan
}

// RiderPlan is one rider's trips plus whether trips[0] changed from the
// request (only meaningful for update flows).
type RiderPlan struct {
	RiderID            string
	Trips              []Trip
	UpdatedCurrentTour bool
}

// Instance is the numeric problem instance fed to the single-trip and
// multi-trip solvers. Index 0 is always the depot; indices 1..N-1 are
// orders in the order supplied to planner.BuildInstance.
type Instance struct {
	// TimeMatrix[i][j] is the travel time in seconds from node i to j.
	TimeMatrix [][]int
	// NodeIDs[i] is the client-facing order/depot id of node i.
	NodeIDs []string
	// PackageVolume[i] is the signed capacity delta of node i.
	PackageVolume []int
	// DeliveryTime[i] is the soft-deadline threshold of node i.
	DeliveryTime []int
	// ServiceTime[i] is the dwell time at node i (0 at the depot).
	ServiceTime []int
	// Penalty[i] is the current drop penalty of node i (0 = depot, never
	// dropped).
	Penalty []int
	// VehicleCapacity[v] is the capacity of vehicle v.
	VehicleCapacity []int
	// StartTime[v] is the earliest departure time of vehicle v for this
	// round.
	StartTime []int
}

// RuleConfig holds the routing-engine constants of spec.md §6, resolved
// once at startup and passed down explicitly rather than read as
// package-level globals.
type RuleConfig struct {
	MissPenalty         int
	MissPenaltyReducer  int
	WaitTimeAtWarehouse int
	LateDeliveryPenalty int
	GlobalStartTime     int
	GlobalEndTime       int
	MaxTripTime         int
}

// NumNodes returns the instance's node count, depot included.
func (in Instance) NumNodes() int { return len(in.TimeMatrix) }

// NumVehicles returns the instance's vehicle count.
func (in Instance) NumVehicles() int { return len(in.VehicleCapacity) }

package tsp

import (
	"math"
	"strings"
)

// Supported TSPLIB EDGE_WEIGHT_TYPE values.
const (
	WeightEuc2D    = "EUC_2D"
	WeightCeil2D   = "CEIL_2D"
	WeightGeo      = "GEO"
	WeightAtt      = "ATT"
	WeightExplicit = "EXPLICIT"
)

// DistanceFunc computes the integral TSPLIB distance of two coordinates.
type DistanceFunc func(a, b [2]float64) float64

// DistanceFor returns the distance function of a coordinate weight type.
func DistanceFor(weightType string) (DistanceFunc, bool) {
	switch strings.ToUpper(weightType) {
	case WeightEuc2D:
		return euc2D, true
	case WeightCeil2D:
		return ceil2D, true
	case WeightGeo:
		return geo, true
	case WeightAtt:
		return att, true
	}
	return nil, false
}

// FromCoords builds an instance from coordinates under a coordinate weight type.
func FromCoords(name, weightType string, coords [][2]float64) (*Instance, error) {
	d, ok := DistanceFor(weightType)
	if !ok {
		return nil, ErrUnsupported
	}
	if len(coords) < 2 {
		return nil, ErrDimensionMismatch
	}
	in := fromFunc(len(coords), func(i, j int) float64 { return d(coords[i], coords[j]) })
	in.Name = name
	in.EdgeWeightType = strings.ToUpper(weightType)
	in.Coords = append([][2]float64(nil), coords...)

	return in, nil
}

// nint rounds to the nearest integer the TSPLIB way.
func nint(x float64) float64 { return float64(int(x + 0.5)) }

func euc2D(a, b [2]float64) float64 {
	return nint(math.Hypot(a[0]-b[0], a[1]-b[1]))
}

func ceil2D(a, b [2]float64) float64 {
	return math.Ceil(math.Hypot(a[0]-b[0], a[1]-b[1]))
}

// Pseudo-Euclidean distance of the att instances.
func att(a, b [2]float64) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	r := math.Sqrt((dx*dx + dy*dy) / 10)
	t := nint(r)
	if t < r {
		return t + 1
	}
	return t
}

const (
	geoPI     = 3.141592
	geoRadius = 6378.388
)

// geoRad converts a TSPLIB DDD.MM coordinate to radians.
func geoRad(x float64) float64 {
	deg := math.Trunc(x)
	mins := x - deg
	return geoPI * (deg + 5*mins/3) / 180
}

// geo is the TSPLIB great circle distance; a[0] is latitude, a[1] longitude.
func geo(a, b [2]float64) float64 {
	latA, lonA := geoRad(a[0]), geoRad(a[1])
	latB, lonB := geoRad(b[0]), geoRad(b[1])
	q1 := math.Cos(lonA - lonB)
	q2 := math.Cos(latA - latB)
	q3 := math.Cos(latA + latB)
	return float64(int(geoRadius*math.Acos(0.5*((1+q1)*q2-(1-q1)*q3)) + 1))
}

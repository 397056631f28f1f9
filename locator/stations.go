package locator

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Station is a sensing installation at a fixed geodetic location. Stations
// are resolved once, at config load, into a local East-North-Up Cartesian
// frame; the core pipeline never sees geodetic coordinates (spec.md
// section 9's design notes: the core's contract is pure ℝ³).
type Station struct {
	ID    string
	Lat   float64
	Lon   float64
	AltM  float64
	Topic string
}

// ResolvedStation is a Station with its ENU origin relative to a chosen
// reference station.
type ResolvedStation struct {
	Station
	Origin Vec3
}

// ResolveStations converts a registry of geodetic stations into local ENU
// coordinates centered on the reference station (by ID). If referenceID is
// empty, the first station in the slice is used as the reference (origin
// (0,0,0)). East-North distances are computed via the WGS84 great-circle
// distance and initial bearing from github.com/paulmach/orb/geo, which is
// accurate enough at the station-separation scales (tens of km) this
// system targets; altitude is a simple subtraction since both are
// heights above the same ellipsoid.
func ResolveStations(stations []Station, referenceID string) ([]ResolvedStation, error) {
	if len(stations) == 0 {
		return nil, fmt.Errorf("locator: no stations configured")
	}

	refIdx := 0
	if referenceID != "" {
		found := false
		for i, s := range stations {
			if s.ID == referenceID {
				refIdx = i
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("locator: reference station %q not found", referenceID)
		}
	}
	ref := stations[refIdx]
	refPoint := orb.Point{ref.Lon, ref.Lat}

	out := make([]ResolvedStation, len(stations))
	for i, s := range stations {
		if s.ID == ref.ID {
			out[i] = ResolvedStation{Station: s, Origin: Vec3{0, 0, s.AltM - ref.AltM}}
			continue
		}

		p := orb.Point{s.Lon, s.Lat}
		dist := geo.Distance(refPoint, p)   // meters
		bearing := geo.Bearing(refPoint, p) // degrees clockwise from north
		bearingRad := bearing * math.Pi / 180

		out[i] = ResolvedStation{
			Station: s,
			Origin: Vec3{
				X: dist * math.Sin(bearingRad), // east
				Y: dist * math.Cos(bearingRad), // north
				Z: s.AltM - ref.AltM,
			},
		}
	}
	return out, nil
}

// StationByID looks up a resolved station by ID.
func StationByID(stations []ResolvedStation, id string) (ResolvedStation, bool) {
	for _, s := range stations {
		if s.ID == id {
			return s, true
		}
	}
	return ResolvedStation{}, false
}

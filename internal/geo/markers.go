package geo

import (
	"time"

	"github.com/paulmach/orb/geojson"

	"trackify/internal/domain/sighting"
)

// Marker is a sighting placed on the map.
type Marker struct {
	ID        string      `json:"_id,omitempty"`
	Plate     string      `json:"license_plate_text"`
	CameraID  string      `json:"camera_number"`
	Timestamp time.Time   `json:"timestamp"`
	Position  Coordinates `json:"position"`
}

// SkippedLocation records a sighting left off the map because its
// location did not parse.
type SkippedLocation struct {
	ID       string `json:"_id,omitempty"`
	Location string `json:"location"`
	Err      error  `json:"-"`
}

// MarkerSet is the result of BuildMarkers.
type MarkerSet struct {
	Markers []Marker
	Skipped []SkippedLocation
}

// BuildMarkers parses each sighting's location once. Sightings with an
// unparseable location are skipped and reported, never placed at (0, 0).
func BuildMarkers(sightings []sighting.Sighting) MarkerSet {
	set := MarkerSet{
		Markers: make([]Marker, 0, len(sightings)),
	}
	for _, s := range sightings {
		pos, err := ParseLocation(s.Location)
		if err != nil {
			set.Skipped = append(set.Skipped, SkippedLocation{
				ID:       s.ID,
				Location: s.Location,
				Err:      err,
			})
			continue
		}
		set.Markers = append(set.Markers, Marker{
			ID:        s.ID,
			Plate:     s.PlateText,
			CameraID:  s.CameraID,
			Timestamp: s.Timestamp,
			Position:  pos,
		})
	}
	return set
}

// FeatureCollection renders the markers as GeoJSON points.
func (ms MarkerSet) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range ms.Markers {
		f := geojson.NewFeature(m.Position.Point())
		if m.ID != "" {
			f.ID = m.ID
			f.Properties["_id"] = m.ID
		}
		f.Properties["license_plate_text"] = m.Plate
		f.Properties["camera_number"] = m.CameraID
		f.Properties["timestamp"] = m.Timestamp.UTC().Format(time.RFC3339)
		fc.Append(f)
	}
	return fc
}

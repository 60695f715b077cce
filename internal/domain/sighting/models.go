package sighting

import (
	"time"
)

// Sighting is one plate recognition written by the external detection
// pipeline. This service only reads them.
type Sighting struct {
	ID              string    `json:"_id,omitempty"`
	FrameNumber     int64     `json:"frame_nmr"`
	CarID           int64     `json:"car_id"`
	PlateText       string    `json:"license_plate_text"`
	CameraID        string    `json:"camera_number"`
	ConfidenceScore float64   `json:"license_number_score"`
	Location        string    `json:"location"`
	Timestamp       time.Time `json:"timestamp"`
}

// Filter narrows a sighting query. A nil or empty NumberPlate matches
// every record.
type Filter struct {
	NumberPlate *string
}

// Plate returns the exact plate text to match and whether filtering applies.
func (f Filter) Plate() (string, bool) {
	if f.NumberPlate == nil || *f.NumberPlate == "" {
		return "", false
	}
	return *f.NumberPlate, true
}

// ByPlate builds a filter for plate, treating "" as unfiltered.
func ByPlate(plate string) Filter {
	if plate == "" {
		return Filter{}
	}
	return Filter{NumberPlate: &plate}
}

package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/lexfield/practice-core/internal/apperr"
	"github.com/lexfield/practice-core/internal/model"
)

// LocationInput — одно из двух представлений места проведения.
type LocationInput struct {
	Kind       model.LocationKind `json:"kind"`
	Address    *string            `json:"address,omitempty"`
	Latitude   *float64           `json:"latitude,omitempty"`
	Longitude  *float64           `json:"longitude,omitempty"`
	MeetingURL *string            `json:"meetingUrl,omitempty"`
}

// validateLocation следит за инвариантом: представление места должно
// соответствовать ровно виду LocationKind.
func validateLocation(loc LocationInput) error {
	if !model.ValidLocationKind(loc.Kind) {
		return apperr.Invalidf("unknown location kind: %q", loc.Kind)
	}

	if loc.Kind == model.LocationKindOnline {
		if loc.MeetingURL == nil || *loc.MeetingURL == "" {
			return apperr.Invalid("online appointment requires meetingUrl")
		}
		if loc.Address != nil || loc.Latitude != nil || loc.Longitude != nil {
			return apperr.Invalid("online appointment must not carry a physical location")
		}
		return nil
	}

	// Физические виды: адрес и/или координаты, но не ссылка на встречу.
	if loc.MeetingURL != nil {
		return apperr.Invalidf("%s appointment must not carry meetingUrl", loc.Kind)
	}
	if (loc.Latitude == nil) != (loc.Longitude == nil) {
		return apperr.Invalid("latitude and longitude must be set together")
	}
	hasAddress := loc.Address != nil && *loc.Address != ""
	if !hasAddress && loc.Latitude == nil {
		return apperr.Invalidf("%s appointment requires address or coordinates", loc.Kind)
	}
	return nil
}

func validateParties(lawyerID, clientID uuid.UUID) error {
	if lawyerID == uuid.Nil {
		return apperr.Invalid("lawyerId is required")
	}
	if clientID == uuid.Nil {
		return apperr.Invalid("clientId is required")
	}
	return nil
}

func validateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperr.Invalid("start and end are required")
	}
	if !end.After(start) {
		return apperr.Invalid("end must be after start")
	}
	return nil
}

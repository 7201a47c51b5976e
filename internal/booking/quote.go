// Package booking computes appointment fee quotes so the UI can show a
// price before the slot is submitted. The backend recomputes the fee on
// booking; these numbers are a preview, not an invoice.
package booking

import (
	"errors"
	"fmt"

	"care-connect/client/internal/api"
)

// Consultation types accepted by the backend.
const (
	TypeInPerson = "in_person"
	TypeVideo    = "video"
)

// PrioritySurchargeCents is added when the patient asks to be seen ahead of
// the regular queue.
const PrioritySurchargeCents int64 = 2500

// videoFeePercent discounts the consultation fee for video visits.
const videoFeePercent int64 = 80

var (
	ErrNoDoctor        = errors.New("booking: no doctor selected")
	ErrUnknownType     = errors.New("booking: unknown consultation type")
	ErrUnknownService  = errors.New("booking: unknown service")
	ErrNegativePricing = errors.New("booking: negative price in catalog")
)

// Quote is an itemized fee preview. All amounts are cents.
type Quote struct {
	ConsultationCents int64
	ServicesCents     int64
	SurchargeCents    int64
	TotalCents        int64
}

// Request describes the selection being priced. ServiceIDs must resolve
// against the services catalog passed to Compute.
type Request struct {
	Doctor     *api.Doctor
	Type       string
	Priority   bool
	ServiceIDs []string
}

// Compute prices a booking selection against the service catalog. Video
// consultations are billed at a reduced rate; priority adds a flat
// surcharge on top of everything else.
func Compute(req Request, catalog []api.Service) (*Quote, error) {
	if req.Doctor == nil {
		return nil, ErrNoDoctor
	}
	if req.Doctor.ConsultationFee < 0 {
		return nil, fmt.Errorf("%w: doctor %s", ErrNegativePricing, req.Doctor.ID)
	}

	var consultation int64
	switch req.Type {
	case TypeInPerson:
		consultation = req.Doctor.ConsultationFee
	case TypeVideo:
		consultation = req.Doctor.ConsultationFee * videoFeePercent / 100
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, req.Type)
	}

	byID := make(map[string]api.Service, len(catalog))
	for _, s := range catalog {
		byID[s.ID] = s
	}
	var services int64
	for _, id := range req.ServiceIDs {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownService, id)
		}
		if s.Price < 0 {
			return nil, fmt.Errorf("%w: service %s", ErrNegativePricing, id)
		}
		services += s.Price
	}

	q := &Quote{
		ConsultationCents: consultation,
		ServicesCents:     services,
	}
	if req.Priority {
		q.SurchargeCents = PrioritySurchargeCents
	}
	q.TotalCents = q.ConsultationCents + q.ServicesCents + q.SurchargeCents
	return q, nil
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Doctor is a bookable practitioner. Fees are in cents.
type Doctor struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Specialty       string `json:"specialty"`
	ConsultationFee int64  `json:"consultation_fee_cents"`
}

// Service is an add-on billed alongside a consultation (lab work, scans).
type Service struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price_cents"`
}

// Appointment is a booked consultation slot.
type Appointment struct {
	ID          string    `json:"id"`
	DoctorID    string    `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Type        string    `json:"type"`
	Priority    bool      `json:"priority"`
	Status      string    `json:"status"`
	ServiceIDs  []string  `json:"service_ids,omitempty"`
	FeeCents    int64     `json:"fee_cents"`
}

// BookingRequest is the payload for booking a new appointment.
type BookingRequest struct {
	DoctorID    string    `json:"doctor_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Type        string    `json:"type"`
	Priority    bool      `json:"priority"`
	ServiceIDs  []string  `json:"service_ids,omitempty"`
}

// ListDoctors returns bookable doctors, optionally filtered by specialty.
func (c *Client) ListDoctors(ctx context.Context, specialty string) ([]Doctor, error) {
	path := "/api/doctors"
	if specialty != "" {
		path += "?specialty=" + url.QueryEscape(specialty)
	}
	var out []Doctor
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListServices returns the services bookable with an appointment.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	var out []Service
	if err := c.do(ctx, http.MethodGet, "/api/services", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAppointments returns the signed-in user's appointments, newest first.
func (c *Client) ListAppointments(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	if err := c.do(ctx, http.MethodGet, "/api/appointments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BookAppointment books a slot and returns the created appointment,
// including the fee the backend settled on.
func (c *Client) BookAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodPost, "/api/appointments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelAppointment cancels the appointment with the given id.
func (c *Client) CancelAppointment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/appointments/%s", url.PathEscape(id)), nil, nil)
}

// Package domain holds the client-side session entities: the signed-in user
// record and the forced-logout reasons surfaced to the login banner.
package domain

// Admin-capable roles as reported by the backend user record.
const (
	RolePatient       = "patient"
	RoleDoctor        = "doctor"
	RoleAdmin         = "admin"
	RoleHospitalAdmin = "hospital_admin"
)

// User is the user record persisted alongside the bearer token. It is the
// JSON object returned by the login and profile endpoints.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

// Admin reports whether the record carries an admin role or flag. This is a
// UI-gating hint only; the authoritative check stays server-side.
func (u *User) Admin() bool {
	if u == nil {
		return false
	}
	return u.IsAdmin || u.Role == RoleAdmin || u.Role == RoleHospitalAdmin
}

// Forced-logout reasons written to the single-read logout-reason slot.
const (
	ReasonSessionExpired = "Your session has expired."
	ReasonInactivity     = "You have been logged out due to inactivity."
)

package domain

import "time"

// Staff is a museum staff member referenced by transfers as a party or
// witness. Transfers never mutate staff records.
type Staff struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IDNumber  string    `json:"idNumber"` // NIP, unique
	Title     string    `json:"title"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// StaffInput carries the writable fields of a staff record.
type StaffInput struct {
	Name     string `json:"name"`
	IDNumber string `json:"idNumber"`
	Title    string `json:"title"`
	Address  string `json:"address"`
}

// StaffUpdate is a partial update; nil fields are left untouched.
type StaffUpdate struct {
	Name     *string `json:"name"`
	IDNumber *string `json:"idNumber"`
	Title    *string `json:"title"`
	Address  *string `json:"address"`
}

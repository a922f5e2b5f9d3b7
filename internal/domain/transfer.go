package domain

import "time"

// Transfer types as they appear on the document.
const (
	TransferReturn   = "Pengembalian"
	TransferLoan     = "Peminjaman"
	TransferHandover = "Serah Terima"
	TransferShipment = "Pengiriman"
)

var TransferTypes = []string{
	TransferReturn,
	TransferLoan,
	TransferHandover,
	TransferShipment,
}

// IsValidTransferType reports whether t is one of the recognized kinds.
func IsValidTransferType(t string) bool {
	for _, v := range TransferTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Transfer is a committed berita acara header.
type Transfer struct {
	ID             string    `json:"id"`
	DocumentNumber string    `json:"documentNumber"`
	Type           string    `json:"type"`
	TransferDate   time.Time `json:"transferDate"`
	Party1ID       string    `json:"party1Id"`
	Party2ID       string    `json:"party2Id"`
	Witness1ID     *string   `json:"witness1Id,omitempty"`
	Witness2ID     *string   `json:"witness2Id,omitempty"`
	CreatedBy      *string   `json:"createdBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TransferItemInput is one line of a transfer request: which collection moves,
// its condition at the moment of transfer, and optionally where it goes.
type TransferItemInput struct {
	CollectionID string  `json:"collectionId"`
	Condition    string  `json:"condition"`
	DestLocation *string `json:"destLocation,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// TransferInput is the full create-transfer request.
type TransferInput struct {
	DocumentNumber string              `json:"documentNumber"`
	Type           string              `json:"type"`
	TransferDate   time.Time           `json:"transferDate"`
	Party1ID       string              `json:"party1Id"`
	Party2ID       string              `json:"party2Id"`
	Witness1ID     *string             `json:"witness1Id"`
	Witness2ID     *string             `json:"witness2Id"`
	CreatedBy      *string             `json:"-"`
	Items          []TransferItemInput `json:"items"`
}

// TransferSummary is one row of the transfer list view.
type TransferSummary struct {
	ID             string    `json:"id"`
	DocumentNumber string    `json:"documentNumber"`
	Type           string    `json:"type"`
	TransferDate   time.Time `json:"transferDate"`
	Party1         *Staff    `json:"party1,omitempty"`
	Party2         *Staff    `json:"party2,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TransferItemDetail is a line item joined with its collection record.
type TransferItemDetail struct {
	ID           string      `json:"id"`
	Condition    string      `json:"condition"`
	DestLocation *string     `json:"destLocation,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	Collection   *Collection `json:"collection,omitempty"`
}

// TransferDetail is the fully joined view of one transfer, as rendered on the
// printed document. Missing join targets stay nil rather than failing the
// whole read.
type TransferDetail struct {
	Transfer
	Party1   *Staff               `json:"party1,omitempty"`
	Party2   *Staff               `json:"party2,omitempty"`
	Witness1 *Staff               `json:"witness1,omitempty"`
	Witness2 *Staff               `json:"witness2,omitempty"`
	Items    []TransferItemDetail `json:"items"`
}

// Event is a lifecycle notification published on the signal channel.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

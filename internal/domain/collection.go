package domain

import "time"

// Condition values a collection item can be in. These are the official terms
// used on the printed document, so they are stored verbatim.
const (
	ConditionGood            = "Baik"
	ConditionLightlyDamaged  = "Rusak Ringan"
	ConditionSeverelyDamaged = "Rusak Berat"
)

var Conditions = []string{
	ConditionGood,
	ConditionLightlyDamaged,
	ConditionSeverelyDamaged,
}

// IsValidCondition reports whether c is one of the recognized conditions.
func IsValidCondition(c string) bool {
	for _, v := range Conditions {
		if v == c {
			return true
		}
	}
	return false
}

// Collection is a master inventory record. Condition and Location form the
// mutable current-state pair that transfers update.
type Collection struct {
	ID              string    `json:"id"`
	InventoryNumber string    `json:"inventoryNumber"`
	Name            string    `json:"name"`
	Category        string    `json:"category,omitempty"`
	Condition       string    `json:"condition"`
	Location        *string   `json:"location,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CollectionInput carries the writable fields of a collection record.
type CollectionInput struct {
	InventoryNumber string  `json:"inventoryNumber"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Condition       string  `json:"condition"`
	Location        *string `json:"location"`
}

// CollectionUpdate is a partial update; nil fields are left untouched.
type CollectionUpdate struct {
	InventoryNumber *string `json:"inventoryNumber"`
	Name            *string `json:"name"`
	Category        *string `json:"category"`
	Condition       *string `json:"condition"`
	Location        *string `json:"location"`
}

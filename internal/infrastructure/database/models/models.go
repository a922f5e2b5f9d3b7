package models

import (
	"time"
)

type User struct {
	ID       string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name     string    `json:"name" gorm:"type:text;not null"`
	Username string    `json:"username" gorm:"type:text;uniqueIndex;not null"`
	Password string    `json:"-" gorm:"type:text;not null"`
	Role     string    `json:"role" gorm:"type:text;not null;default:'user'"`
	CDate    time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Staff struct {
	ID       string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name     string    `json:"name" gorm:"type:text;not null"`
	IDNumber string    `json:"idNumber" gorm:"column:id_number;type:text;uniqueIndex;not null"`
	Title    string    `json:"title" gorm:"type:text;not null"`
	Address  string    `json:"address" gorm:"type:text"`
	CDate    time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Collection struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid"`
	InventoryNumber string    `json:"inventoryNumber" gorm:"type:text;uniqueIndex;not null"`
	Name            string    `json:"name" gorm:"type:text;not null"`
	Category        string    `json:"category" gorm:"type:text"`
	Condition       string    `json:"condition" gorm:"type:text;not null;default:'Baik'"`
	Location        *string   `json:"location,omitempty" gorm:"type:text"`
	CDate           time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate           time.Time `json:"mdate" gorm:"autoUpdateTime"`
}

type Transfer struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	DocumentNumber string    `json:"documentNumber" gorm:"type:text;not null"`
	Type           string    `json:"type" gorm:"type:text;not null"`
	TransferDate   time.Time `json:"transferDate" gorm:"type:timestamp with time zone;not null"`
	Party1ID       string    `json:"party1Id" gorm:"type:uuid;not null"`
	Party1         *Staff    `json:"party1,omitempty" gorm:"foreignKey:Party1ID"`
	Party2ID       string    `json:"party2Id" gorm:"type:uuid;not null"`
	Party2         *Staff    `json:"party2,omitempty" gorm:"foreignKey:Party2ID"`
	Witness1ID     *string   `json:"witness1Id,omitempty" gorm:"type:uuid"`
	Witness1       *Staff    `json:"witness1,omitempty" gorm:"foreignKey:Witness1ID"`
	Witness2ID     *string   `json:"witness2Id,omitempty" gorm:"type:uuid"`
	Witness2       *Staff    `json:"witness2,omitempty" gorm:"foreignKey:Witness2ID"`
	CreatedBy      *string   `json:"createdBy,omitempty" gorm:"type:uuid"`
	CDate          time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`

	Items []TransferItem `json:"items" gorm:"foreignKey:TransferID;constraint:OnDelete:CASCADE;"`
}

type TransferItem struct {
	ID           string      `json:"id" gorm:"primaryKey;type:uuid"`
	TransferID   string      `json:"transferId" gorm:"type:uuid;index;not null"`
	CollectionID string      `json:"collectionId" gorm:"type:uuid;not null"`
	Collection   *Collection `json:"collection,omitempty" gorm:"foreignKey:CollectionID"`
	Condition    string      `json:"condition" gorm:"type:text;not null"`
	DestLocation *string     `json:"destLocation,omitempty" gorm:"type:text"`
	Notes        string      `json:"notes" gorm:"type:text"`
	CDate        time.Time   `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientPreference stores what a browser or CLI profile remembers between
// sessions. Today that is only the last date typed into the entry form.
type ClientPreference struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ClientID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"client_id"`
	LastDate  string         `gorm:"size:10" json:"last_date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new preference row
func (p *ClientPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ClientPreference model
func (ClientPreference) TableName() string {
	return "client_preferences"
}

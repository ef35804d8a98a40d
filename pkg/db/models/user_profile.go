package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPostalCode      = "0000"
	DefaultCellPhoneNumber = "00-0000-0000"
)

// UserProfile stores the address block attached to a User.
type UserProfile struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_user_profiles_user_id"`
	Country         string    `gorm:"column:country;type:varchar(100);not null;default:''"`
	State           string    `gorm:"column:state;type:varchar(100);not null;default:''"`
	City            string    `gorm:"column:city;type:varchar(100);not null;default:''"`
	PostalCode      string    `gorm:"column:postal_code;type:varchar(15);not null;default:'0000'"`
	CellPhoneNumber string    `gorm:"column:cell_phone_number;type:varchar(20);not null;default:'00-0000-0000'"`
	User            *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *UserProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PostalCode == "" {
		p.PostalCode = DefaultPostalCode
	}
	if p.CellPhoneNumber == "" {
		p.CellPhoneNumber = DefaultCellPhoneNumber
	}
	return nil
}

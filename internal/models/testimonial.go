package models

import (
	"time"
)

type Testimonial struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Testimonial string    `gorm:"type:text;not null" json:"testimonial"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Owner       User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

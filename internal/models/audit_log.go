package models

import "time"

type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	BatchID  string `gorm:"size:36;index"` // load batch the entry belongs to
	Entity   string `gorm:"size:50;not null"` // "threat", "batch"
	EntityID uint
	Action   string `gorm:"size:50;not null"` // "load", "mitigate"
	Details  string `gorm:"type:text"`
}

package entity

import (
	"time"
)

type Base struct {
	ID        string `gorm:"primarykey;size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SnowFlakeBase struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

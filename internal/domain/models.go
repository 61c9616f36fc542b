package domain

import (
	"time"
)

// Employee представляет сотрудника
type Employee struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	FirstName string     `gorm:"type:varchar(255);not null"`
	LastName  string     `gorm:"type:varchar(255);not null"`
	Email     string     `gorm:"type:varchar(255);not null;uniqueIndex:uniq_employees_email"`
	HiredAt   *time.Time `gorm:"not null"`
	Salary    *float64   `gorm:"type:double precision;not null"`

	// Временные метки проставляет репозиторий, а не хуки GORM
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "employees"
}

package models

import "time"

// ApplicationSection is one saved step of a user's funding application.
// (user_id, section_type) is unique; Data holds the section's JSON text.
type ApplicationSection struct {
	ID                   uint        `gorm:"primaryKey;column:id" json:"-"`
	UserID               string      `gorm:"column:user_id;size:64;not null;uniqueIndex:idx_section_user_type,priority:1" json:"user_id"`
	SectionType          SectionType `gorm:"column:section_type;size:32;not null;uniqueIndex:idx_section_user_type,priority:2" json:"section_type"`
	Data                 string      `gorm:"column:data;type:longtext;not null" json:"-"`
	Completed            bool        `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletionPercentage int         `gorm:"column:completion_percentage;not null;default:0" json:"completion_percentage"`
	Version              int         `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt            time.Time   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time   `gorm:"column:updated_at" json:"updated_at"`
}

func (ApplicationSection) TableName() string {
	return "application_sections"
}

package model

import "time"

// Link binds a short code to its destination URL plus usage metadata.
type Link struct {
	Code        string     `db:"code" gorm:"primaryKey;size:8"`
	URL         string     `db:"url" gorm:"type:text;not null"`
	TotalClicks int64      `db:"total_clicks" gorm:"not null;default:0"`
	LastClicked *time.Time `db:"last_clicked"`
	CreatedAt   time.Time  `db:"created_at" gorm:"autoCreateTime;index"`
}

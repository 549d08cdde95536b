package domain

import "time"

// ScheduleExport stores metadata about an exported weekly calendar.
// The file itself lives in object storage.
type ScheduleExport struct {
	ID          string    `bson:"_id" json:"id"`
	AthleteID   string    `bson:"athleteId" json:"athleteId"`
	WeekStart   time.Time `bson:"weekStart" json:"weekStart"`
	ObjectKey   string    `bson:"objectKey" json:"-"`
	ContentType string    `bson:"contentType" json:"contentType"`
	Size        int64     `bson:"size" json:"size"`
	Sessions    int       `bson:"sessions" json:"sessions"`
	ExportedAt  time.Time `bson:"exportedAt" json:"exportedAt"`
	DownloadURL string    `bson:"-" json:"downloadUrl,omitempty"`
}

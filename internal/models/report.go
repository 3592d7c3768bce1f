package models

import "time"

type ReportStatus string

const (
	StatusSent            ReportStatus = "Sent"
	StatusAccepted        ReportStatus = "Accepted"
	StatusHelpArriving    ReportStatus = "Help Arriving"
	StatusBackupTriggered ReportStatus = "Backup Triggered"
	StatusResolved        ReportStatus = "Resolved"
)

// Terminal reports must never be escalated again.
func (s ReportStatus) Terminal() bool {
	return s == StatusBackupTriggered || s == StatusResolved
}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

func ParsePriority(s string) Priority {
	switch s {
	case string(PriorityLow), string(PriorityMedium), string(PriorityHigh), string(PriorityCritical):
		return Priority(s)
	default:
		return PriorityMedium
	}
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type UserProfile struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type AuthorityProfile struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type AuthorityRecord struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Contact string `json:"contact"`
}

type Report struct {
	ID            string          `json:"id"`
	Tag           Tag             `json:"tag"`
	Priority      Priority        `json:"priority"`
	Description   string          `json:"description,omitempty"`
	Address       string          `json:"address,omitempty"`
	Pincode       string          `json:"pincode,omitempty"`
	Location      *Location       `json:"location,omitempty"`
	MediaName     string          `json:"mediaName,omitempty"`
	MediaData     string          `json:"mediaData,omitempty"` // inline data URL
	Submitter     *UserProfile    `json:"user,omitempty"`
	Authority     AuthorityRecord `json:"authority"`
	ServerMessage string          `json:"serverMessage,omitempty"`
	Status        ReportStatus    `json:"status"`
	CreatedAt     time.Time       `json:"timestamp"`
}

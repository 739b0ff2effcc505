// Package model defines the time-tracking domain entities shared by the
// import engine and the entity store client. Entities are plain records;
// behavior lives in the packages that operate on them.
package model

import "time"

// Client is a billing client. Matching during import compares names
// case-insensitively; the ID is opaque and stable once persisted.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project belongs to at most one client. ClientID is nil for projects
// without a client. Color is purely presentational.
type Project struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ClientID   *string  `json:"clientId,omitempty"`
	Color      string   `json:"color"`
	Billable   bool     `json:"billable"`
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
}

// TimeEntry is a single tracked interval. Duration is derived seconds
// (EndTime - StartTime); it is carried for display but never trusted over
// the timestamps once both parse.
type TimeEntry struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Duration    int64     `json:"duration"`
	ProjectID   *string   `json:"projectId,omitempty"`
	Billable    bool      `json:"billable"`
	Tags        []string  `json:"tags,omitempty"`
}

// CreateClientParams is the payload for creating a client.
type CreateClientParams struct {
	Name string `json:"name"`
}

// CreateProjectParams is the payload for creating a project.
type CreateProjectParams struct {
	Name       string   `json:"name"`
	ClientID   *string  `json:"clientId,omitempty"`
	Color      string   `json:"color"`
	Billable   bool     `json:"billable"`
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
}

// CreateTimeEntryParams is the payload for creating a time entry.
type CreateTimeEntryParams struct {
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Duration    int64     `json:"duration"`
	ProjectID   *string   `json:"projectId,omitempty"`
	Billable    bool      `json:"billable"`
	Tags        []string  `json:"tags,omitempty"`
}

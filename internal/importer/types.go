// Package importer provides the business logic for reconciling a foreign
// time-tracking CSV export against the entity store. This package has no
// HTTP dependencies and can be used by any frontend.
//
// The pipeline is two-phase: BuildPreview produces a side-effect-free
// ImportPreview describing what an import would create, and Commit applies
// a (possibly user-edited) preview, creating exactly the records still
// flagged new.
package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RefKind identifies which entity collection an EntityRef belongs to.
type RefKind string

const (
	RefClient  RefKind = "client"
	RefProject RefKind = "project"
)

// EntityRef identifies a client or project within a preview. It is either
// an existing persisted ID or a pending placeholder minted during preview
// generation. Pending refs exist only so time entries can point at
// entities that have no real ID yet; they must never reach the store.
type EntityRef struct {
	kind    RefKind
	id      string
	ordinal int
	pending bool
}

// ExistingRef returns a reference to a persisted entity.
func ExistingRef(kind RefKind, id string) EntityRef {
	return EntityRef{kind: kind, id: id}
}

// PendingRef returns a preview-local placeholder reference.
func PendingRef(kind RefKind, ordinal int) EntityRef {
	return EntityRef{kind: kind, ordinal: ordinal, pending: true}
}

// Pending reports whether the reference is a preview-local placeholder.
func (r EntityRef) Pending() bool { return r.pending }

// Kind returns the entity collection the reference belongs to.
func (r EntityRef) Kind() RefKind { return r.kind }

// String renders the reference as a preview ID: the real ID for existing
// entities, "new-<kind>-<ordinal>" for pending ones.
func (r EntityRef) String() string {
	if r.pending {
		return fmt.Sprintf("new-%s-%d", r.kind, r.ordinal)
	}
	return r.id
}

// ParseEntityRef parses a preview ID back into a reference. Any string not
// shaped like a pending placeholder is treated as an existing ID. The
// "new-<kind>-<n>" shape is therefore reserved: a store id of that exact
// shape would be reclassified as pending on round-trip and refused at
// commit time. Stores issuing UUID-style ids are unaffected.
func ParseEntityRef(kind RefKind, s string) EntityRef {
	rest, ok := strings.CutPrefix(s, "new-"+string(kind)+"-")
	if ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 {
			return PendingRef(kind, n)
		}
	}
	return ExistingRef(kind, s)
}

// MarshalJSON renders the reference as its preview ID string.
func (r EntityRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// PreviewClient is a client candidate staged by preview generation.
type PreviewClient struct {
	Ref   EntityRef
	Name  string
	IsNew bool
}

type previewClientJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsNew bool   `json:"isNew"`
}

// MarshalJSON serializes the preview ID as a plain string field.
func (c PreviewClient) MarshalJSON() ([]byte, error) {
	return json.Marshal(previewClientJSON{ID: c.Ref.String(), Name: c.Name, IsNew: c.IsNew})
}

// UnmarshalJSON restores the tagged reference from the string ID.
func (c *PreviewClient) UnmarshalJSON(data []byte) error {
	var j previewClientJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	c.Ref = ParseEntityRef(RefClient, j.ID)
	c.Name = j.Name
	c.IsNew = j.IsNew
	return nil
}

// PreviewProject is a project candidate staged by preview generation.
// ClientRef is nil for projects without a client.
type PreviewProject struct {
	Ref        EntityRef
	Name       string
	ClientRef  *EntityRef
	Color      string
	Billable   bool
	HourlyRate *float64
	IsNew      bool
}

type previewProjectJSON struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ClientID   *string  `json:"clientId,omitempty"`
	Color      string   `json:"color"`
	Billable   bool     `json:"billable"`
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
	IsNew      bool     `json:"isNew"`
}

// MarshalJSON serializes the references as plain string IDs.
func (p PreviewProject) MarshalJSON() ([]byte, error) {
	j := previewProjectJSON{
		ID:         p.Ref.String(),
		Name:       p.Name,
		Color:      p.Color,
		Billable:   p.Billable,
		HourlyRate: p.HourlyRate,
		IsNew:      p.IsNew,
	}
	if p.ClientRef != nil {
		s := p.ClientRef.String()
		j.ClientID = &s
	}
	return json.Marshal(j)
}

// UnmarshalJSON restores the tagged references from the string IDs.
func (p *PreviewProject) UnmarshalJSON(data []byte) error {
	var j previewProjectJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	p.Ref = ParseEntityRef(RefProject, j.ID)
	p.Name = j.Name
	p.Color = j.Color
	p.Billable = j.Billable
	p.HourlyRate = j.HourlyRate
	p.IsNew = j.IsNew
	p.ClientRef = nil
	if j.ClientID != nil {
		ref := ParseEntityRef(RefClient, *j.ClientID)
		p.ClientRef = &ref
	}
	return nil
}

// PreviewTimeEntry is a time-entry candidate. ProjectRef is nil when the
// source row named no project. IsNew is false for entries whose dedup key
// already exists in the store snapshot; those are shown for information
// and skipped at commit time.
type PreviewTimeEntry struct {
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Duration    int64
	ProjectRef  *EntityRef
	Billable    bool
	Tags        []string
	IsNew       bool
}

type previewTimeEntryJSON struct {
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Duration    int64     `json:"duration"`
	ProjectID   *string   `json:"projectId,omitempty"`
	Billable    bool      `json:"billable"`
	Tags        []string  `json:"tags,omitempty"`
	IsNew       bool      `json:"isNew"`
}

// MarshalJSON serializes the project reference as a plain string ID.
func (e PreviewTimeEntry) MarshalJSON() ([]byte, error) {
	j := previewTimeEntryJSON{
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Duration:    e.Duration,
		Billable:    e.Billable,
		Tags:        e.Tags,
		IsNew:       e.IsNew,
	}
	if e.ProjectRef != nil {
		s := e.ProjectRef.String()
		j.ProjectID = &s
	}
	return json.Marshal(j)
}

// UnmarshalJSON restores the tagged project reference from the string ID.
func (e *PreviewTimeEntry) UnmarshalJSON(data []byte) error {
	var j previewTimeEntryJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	e.Description = j.Description
	e.StartTime = j.StartTime
	e.EndTime = j.EndTime
	e.Duration = j.Duration
	e.Billable = j.Billable
	e.Tags = j.Tags
	e.IsNew = j.IsNew
	e.ProjectRef = nil
	if j.ProjectID != nil {
		ref := ParseEntityRef(RefProject, *j.ProjectID)
		e.ProjectRef = &ref
	}
	return nil
}

// PreviewSummary contains the headline counts for a preview.
type PreviewSummary struct {
	NewClients   int `json:"newClients"`
	NewProjects  int `json:"newProjects"`
	TotalEntries int `json:"totalEntries"`
	NewEntries   int `json:"newEntries"`
}

// ImportPreview is the side-effect-free result of reconciling a CSV file
// against the store snapshot. It is serializable so a UI can display and
// edit it before commit; edits produce a new preview value, and Commit
// re-derives everything it needs from the preview it is given.
type ImportPreview struct {
	Clients  []PreviewClient    `json:"clients"`
	Projects []PreviewProject   `json:"projects"`
	Entries  []PreviewTimeEntry `json:"timeEntries"`
	Errors   []string           `json:"errors,omitempty"`
	Summary  PreviewSummary     `json:"summary"`
}

// ImportCounts holds the number of records created by a commit.
type ImportCounts struct {
	Clients     int `json:"clients"`
	Projects    int `json:"projects"`
	TimeEntries int `json:"timeEntries"`
}

// ImportResult is the outcome of committing a preview. Success stays true
// on partial failure; callers must inspect Errors to know whether every
// item made it.
type ImportResult struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	Imported ImportCounts `json:"imported"`
	Errors   []string     `json:"errors,omitempty"`
}

// ValidationResult is the outcome of the pre-parse format check.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Dialect string `json:"dialect,omitempty"`
}

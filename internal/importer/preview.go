package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/timetab/timetab/internal/store"
)

// Engine reconciles CSV exports against the entity store and commits the
// resulting previews. All store reads happen up front; the reconciliation
// pass itself is pure in-memory computation over those snapshots.
type Engine struct {
	store store.Store
}

// NewEngine creates an Engine backed by the given store.
func NewEngine(st store.Store) *Engine {
	return &Engine{store: st}
}

// dedupKeyDelimiter joins the identity fields of a time entry. Chosen to
// be unlikely in real descriptions or IDs.
const dedupKeyDelimiter = "||"

// dedupKey summarizes the identity-relevant fields of a time entry at
// whole-second UTC granularity. Source formats differ in sub-second and
// zone representation; truncation makes the same logical entry hash to
// the same key regardless of which export it came from.
func dedupKey(projectID string, start, end time.Time, description string) string {
	return strings.Join([]string{
		projectID,
		start.UTC().Truncate(time.Second).Format(time.RFC3339),
		end.UTC().Truncate(time.Second).Format(time.RFC3339),
		description,
	}, dedupKeyDelimiter)
}

// normalizeName is the case-insensitive identity used to match clients and
// projects by name.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BuildPreview parses raw CSV text and reconciles it against the current
// store state, producing a side-effect-free preview of what an import
// would create. Row-level problems are collected in the preview's Errors;
// only an unreadable header or a failed store read aborts the call.
func (e *Engine) BuildPreview(ctx context.Context, raw string) (*ImportPreview, error) {
	d, err := detectDialect(raw)
	if err != nil {
		return nil, err
	}

	rows := parseRows(string(sanitizeUTF8([]byte(raw))))
	preview := &ImportPreview{
		Clients:  []PreviewClient{},
		Projects: []PreviewProject{},
		Entries:  []PreviewTimeEntry{},
	}
	if len(rows) == 0 {
		preview.Errors = append(preview.Errors, "no data found")
		return preview, nil
	}

	// Snapshot the store once. These three reads are the only I/O in the
	// preview phase; any failure here is fatal for the call.
	existingClients, err := e.store.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	existingProjects, err := e.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	existingEntries, err := e.store.ListTimeEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}

	existingClientMap := make(map[string]string, len(existingClients))
	for _, c := range existingClients {
		existingClientMap[normalizeName(c.Name)] = c.ID
	}
	existingProjectMap := make(map[string]string, len(existingProjects))
	for _, p := range existingProjects {
		existingProjectMap[normalizeName(p.Name)] = p.ID
	}
	existingKeys := make(map[string]bool, len(existingEntries))
	for _, entry := range existingEntries {
		projectID := ""
		if entry.ProjectID != nil {
			projectID = *entry.ProjectID
		}
		existingKeys[dedupKey(projectID, entry.StartTime, entry.EndTime, entry.Description)] = true
	}

	// Insertion-ordered, name-keyed candidate maps. Each distinct
	// normalized name appears at most once no matter how many rows
	// mention it.
	uniqueClients := make(map[string]EntityRef)
	uniqueProjects := make(map[string]EntityRef)

	for i, row := range rows {
		data, err := d.interpret(row)
		if err != nil {
			preview.Errors = append(preview.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}

		if data.clientName != "" {
			key := normalizeName(data.clientName)
			if _, seen := uniqueClients[key]; !seen {
				var ref EntityRef
				isNew := false
				if id, ok := existingClientMap[key]; ok {
					ref = ExistingRef(RefClient, id)
				} else {
					ref = PendingRef(RefClient, len(uniqueClients))
					isNew = true
				}
				uniqueClients[key] = ref
				preview.Clients = append(preview.Clients, PreviewClient{
					Ref:   ref,
					Name:  data.clientName,
					IsNew: isNew,
				})
			}
		}

		if data.projectName != "" {
			key := normalizeName(data.projectName)
			if _, seen := uniqueProjects[key]; !seen {
				var ref EntityRef
				isNew := false
				if id, ok := existingProjectMap[key]; ok {
					ref = ExistingRef(RefProject, id)
				} else {
					ref = PendingRef(RefProject, len(uniqueProjects))
					isNew = true
				}
				uniqueProjects[key] = ref

				clientRef := resolveClientRef(data.clientName, existingClientMap, uniqueClients)
				preview.Projects = append(preview.Projects, PreviewProject{
					Ref:        ref,
					Name:       data.projectName,
					ClientRef:  clientRef,
					Color:      pickColor(),
					Billable:   data.billable,
					HourlyRate: data.hourlyRate,
					IsNew:      isNew,
				})
			}
		}

		if !data.hasInterval {
			continue
		}

		projectRef := resolveProjectRef(data.projectName, existingProjectMap, uniqueProjects)
		projectID := ""
		if projectRef != nil {
			projectID = projectRef.String()
		}

		key := dedupKey(projectID, data.start, data.end, data.description)
		preview.Entries = append(preview.Entries, PreviewTimeEntry{
			Description: data.description,
			StartTime:   data.start,
			EndTime:     data.end,
			Duration:    data.duration,
			ProjectRef:  projectRef,
			Billable:    data.billable,
			Tags:        data.tags,
			IsNew:       !existingKeys[key],
		})
	}

	for _, c := range preview.Clients {
		if c.IsNew {
			preview.Summary.NewClients++
		}
	}
	for _, p := range preview.Projects {
		if p.IsNew {
			preview.Summary.NewProjects++
		}
	}
	preview.Summary.TotalEntries = len(preview.Entries)
	for _, entry := range preview.Entries {
		if entry.IsNew {
			preview.Summary.NewEntries++
		}
	}

	return preview, nil
}

// resolveClientRef resolves a row's client name to a reference: existing
// clients win, then clients staged earlier in this preview.
func resolveClientRef(clientName string, existing map[string]string, staged map[string]EntityRef) *EntityRef {
	if clientName == "" {
		return nil
	}
	key := normalizeName(clientName)
	if id, ok := existing[key]; ok {
		ref := ExistingRef(RefClient, id)
		return &ref
	}
	if ref, ok := staged[key]; ok {
		return &ref
	}
	return nil
}

// resolveProjectRef resolves a row's project name the same way.
func resolveProjectRef(projectName string, existing map[string]string, staged map[string]EntityRef) *EntityRef {
	if projectName == "" {
		return nil
	}
	key := normalizeName(projectName)
	if id, ok := existing[key]; ok {
		ref := ExistingRef(RefProject, id)
		return &ref
	}
	if ref, ok := staged[key]; ok {
		return &ref
	}
	return nil
}

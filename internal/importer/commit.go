package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/timetab/timetab/internal/model"
)

// Commit applies a preview: new clients first, then new projects with
// client references remapped, then new time entries with project
// references remapped. Per-entity store failures are recorded and the
// batch continues; bulk imports favor getting as much in as possible over
// all-or-nothing. Callers must inspect Errors, not just Success, to know
// whether every item made it.
//
// The preview may have been edited after generation (renamed entities,
// toggled flags, removed rows), so all id maps are re-derived here from
// the preview as given; the IsNew flags are the single source of truth.
func (e *Engine) Commit(ctx context.Context, preview *ImportPreview) *ImportResult {
	result := &ImportResult{}

	if preview == nil || ctx.Err() != nil {
		result.Message = "Import failed."
		return result
	}
	result.Success = true

	// Preview ID -> real persisted ID, rebuilt from scratch.
	clientIDs := make(map[string]string)
	projectIDs := make(map[string]string)

	for _, c := range preview.Clients {
		if !c.IsNew {
			// An edited preview can mark a placeholder as already
			// persisted; there is no real id behind it, so it must not
			// seed the map. Dependents then fail with "was not created".
			if c.Ref.Pending() {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Client %s is not persisted", c.Ref.String()))
				continue
			}
			// Already persisted; its id maps to itself.
			clientIDs[c.Ref.String()] = c.Ref.String()
			continue
		}
		name := strings.TrimSpace(c.Name)
		if name == "" {
			result.Errors = append(result.Errors, "Failed to create client: empty name")
			continue
		}
		created, err := e.store.CreateClient(ctx, model.CreateClientParams{Name: name})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to create client %q: %v", name, err))
			continue
		}
		clientIDs[c.Ref.String()] = created.ID
		result.Imported.Clients++
	}

	for _, p := range preview.Projects {
		if !p.IsNew {
			if p.Ref.Pending() {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Project %s is not persisted", p.Ref.String()))
				continue
			}
			projectIDs[p.Ref.String()] = p.Ref.String()
			continue
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			result.Errors = append(result.Errors, "Failed to create project: empty name")
			continue
		}

		clientID, err := resolveCommitRef(p.ClientRef, clientIDs)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to create project %q: %v", name, err))
			continue
		}

		created, err := e.store.CreateProject(ctx, model.CreateProjectParams{
			Name:       name,
			ClientID:   clientID,
			Color:      p.Color,
			Billable:   p.Billable,
			HourlyRate: p.HourlyRate,
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to create project %q: %v", name, err))
			continue
		}
		projectIDs[p.Ref.String()] = created.ID
		result.Imported.Projects++
	}

	for _, entry := range preview.Entries {
		if !entry.IsNew {
			// Duplicates are informational only; skip silently.
			continue
		}

		projectID, err := resolveCommitRef(entry.ProjectRef, projectIDs)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Failed to create time entry %q (%s): %v",
					entry.Description, entry.StartTime.UTC().Format("2006-01-02 15:04"), err))
			continue
		}

		_, err = e.store.CreateTimeEntry(ctx, model.CreateTimeEntryParams{
			Description: entry.Description,
			StartTime:   entry.StartTime,
			EndTime:     entry.EndTime,
			Duration:    entry.Duration,
			ProjectID:   projectID,
			Billable:    entry.Billable,
			Tags:        entry.Tags,
		})
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Failed to create time entry %q (%s): %v",
					entry.Description, entry.StartTime.UTC().Format("2006-01-02 15:04"), err))
			continue
		}
		result.Imported.TimeEntries++
	}

	result.Message = commitMessage(result)
	return result
}

// resolveCommitRef maps a preview reference to a real store id. Existing
// ids pass through unchanged; pending ids must have been created earlier
// in this commit. A pending id with no mapping means its parent entity
// failed to create (or was removed from the preview), and it must never
// be sent to the store.
func resolveCommitRef(ref *EntityRef, idMap map[string]string) (*string, error) {
	if ref == nil {
		return nil, nil
	}
	if id, ok := idMap[ref.String()]; ok {
		return &id, nil
	}
	if ref.Pending() {
		return nil, fmt.Errorf("%s %s was not created", ref.Kind(), ref.String())
	}
	// A real id the map never saw: the preview referenced an entity that
	// was already persisted before this import.
	id := ref.String()
	return &id, nil
}

func commitMessage(result *ImportResult) string {
	counts := fmt.Sprintf("%d clients, %d projects, and %d time entries",
		result.Imported.Clients, result.Imported.Projects, result.Imported.TimeEntries)
	if len(result.Errors) > 0 {
		return fmt.Sprintf("Import completed with %d errors: imported %s.", len(result.Errors), counts)
	}
	return fmt.Sprintf("Imported %s.", counts)
}

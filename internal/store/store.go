// Package store provides access to the time-tracking entity store, a
// remote HTTP API holding clients, projects, and time entries. The import
// engine depends only on the Store interface; the HTTP client here is one
// implementation of it.
package store

import (
	"context"

	"github.com/timetab/timetab/internal/model"
)

// Store is the persistence collaborator required by the import engine.
// List calls return full snapshots; pagination is not part of this surface.
// Create calls must return the persisted record with its assigned ID.
type Store interface {
	ListClients(ctx context.Context) ([]model.Client, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListTimeEntries(ctx context.Context) ([]model.TimeEntry, error)
	CreateClient(ctx context.Context, params model.CreateClientParams) (model.Client, error)
	CreateProject(ctx context.Context, params model.CreateProjectParams) (model.Project, error)
	CreateTimeEntry(ctx context.Context, params model.CreateTimeEntryParams) (model.TimeEntry, error)
}

// Package storetest provides an in-memory Store implementation for tests.
package storetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/timetab/timetab/internal/model"
)

// Fake is an in-memory entity store. Create calls assign sequential IDs.
// Failure hooks let tests simulate per-call store faults.
type Fake struct {
	mu       sync.Mutex
	nextID   int
	Clients  []model.Client
	Projects []model.Project
	Entries  []model.TimeEntry

	// FailListClients etc. make the corresponding call return an error.
	FailListClients  error
	FailListProjects error
	FailListEntries  error

	// FailCreateClient is consulted with the candidate name before each
	// create; a non-nil return fails that one call.
	FailCreateClient  func(name string) error
	FailCreateProject func(name string) error
	FailCreateEntry   func(description string) error
}

// New returns an empty fake store.
func New() *Fake {
	return &Fake{}
}

func (f *Fake) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *Fake) ListClients(ctx context.Context) ([]model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailListClients != nil {
		return nil, f.FailListClients
	}
	out := make([]model.Client, len(f.Clients))
	copy(out, f.Clients)
	return out, nil
}

func (f *Fake) ListProjects(ctx context.Context) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailListProjects != nil {
		return nil, f.FailListProjects
	}
	out := make([]model.Project, len(f.Projects))
	copy(out, f.Projects)
	return out, nil
}

func (f *Fake) ListTimeEntries(ctx context.Context) ([]model.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailListEntries != nil {
		return nil, f.FailListEntries
	}
	out := make([]model.TimeEntry, len(f.Entries))
	copy(out, f.Entries)
	return out, nil
}

func (f *Fake) CreateClient(ctx context.Context, params model.CreateClientParams) (model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCreateClient != nil {
		if err := f.FailCreateClient(params.Name); err != nil {
			return model.Client{}, err
		}
	}
	c := model.Client{ID: f.newID("client"), Name: params.Name}
	f.Clients = append(f.Clients, c)
	return c, nil
}

func (f *Fake) CreateProject(ctx context.Context, params model.CreateProjectParams) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCreateProject != nil {
		if err := f.FailCreateProject(params.Name); err != nil {
			return model.Project{}, err
		}
	}
	p := model.Project{
		ID:         f.newID("project"),
		Name:       params.Name,
		ClientID:   params.ClientID,
		Color:      params.Color,
		Billable:   params.Billable,
		HourlyRate: params.HourlyRate,
	}
	f.Projects = append(f.Projects, p)
	return p, nil
}

func (f *Fake) CreateTimeEntry(ctx context.Context, params model.CreateTimeEntryParams) (model.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCreateEntry != nil {
		if err := f.FailCreateEntry(params.Description); err != nil {
			return model.TimeEntry{}, err
		}
	}
	e := model.TimeEntry{
		ID:          f.newID("entry"),
		Description: params.Description,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		Duration:    params.Duration,
		ProjectID:   params.ProjectID,
		Billable:    params.Billable,
		Tags:        params.Tags,
	}
	f.Entries = append(f.Entries, e)
	return e, nil
}

package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timetab/timetab/internal/model"
	"github.com/timetab/timetab/internal/store/storetest"
)

const acmeCSV = normalizedHeader + "\n" +
	"Website,Acme,Fix landing page,design,Yes,2024-03-01T09:00:00Z,2024-03-01T10:00:00Z\n"

func TestBuildPreview_AllNew(t *testing.T) {
	engine := NewEngine(storetest.New())

	preview, err := engine.BuildPreview(context.Background(), acmeCSV)
	require.NoError(t, err)
	assert.Empty(t, preview.Errors)

	require.Len(t, preview.Clients, 1)
	assert.Equal(t, "Acme", preview.Clients[0].Name)
	assert.True(t, preview.Clients[0].IsNew)
	assert.True(t, preview.Clients[0].Ref.Pending())

	require.Len(t, preview.Projects, 1)
	p := preview.Projects[0]
	assert.Equal(t, "Website", p.Name)
	assert.True(t, p.IsNew)
	assert.True(t, p.Billable)
	assert.NotEmpty(t, p.Color)
	require.NotNil(t, p.ClientRef)
	assert.Equal(t, preview.Clients[0].Ref, *p.ClientRef)

	require.Len(t, preview.Entries, 1)
	entry := preview.Entries[0]
	assert.Equal(t, "Fix landing page", entry.Description)
	assert.Equal(t, int64(3600), entry.Duration)
	assert.True(t, entry.IsNew)
	require.NotNil(t, entry.ProjectRef)
	assert.Equal(t, p.Ref, *entry.ProjectRef)

	assert.Equal(t, PreviewSummary{
		NewClients:   1,
		NewProjects:  1,
		TotalEntries: 1,
		NewEntries:   1,
	}, preview.Summary)
}

func TestBuildPreview_ReimportIsIdempotent(t *testing.T) {
	fake := storetest.New()
	engine := NewEngine(fake)

	preview, err := engine.BuildPreview(context.Background(), acmeCSV)
	require.NoError(t, err)

	result := engine.Commit(context.Background(), preview)
	require.True(t, result.Success)
	require.Empty(t, result.Errors)
	assert.Equal(t, ImportCounts{Clients: 1, Projects: 1, TimeEntries: 1}, result.Imported)

	// The same file again: everything is recognized, nothing new.
	again, err := engine.BuildPreview(context.Background(), acmeCSV)
	require.NoError(t, err)
	assert.Empty(t, again.Errors)

	require.Len(t, again.Clients, 1)
	assert.False(t, again.Clients[0].IsNew)
	require.Len(t, again.Projects, 1)
	assert.False(t, again.Projects[0].IsNew)
	require.Len(t, again.Entries, 1)
	assert.False(t, again.Entries[0].IsNew)
	assert.Equal(t, 0, again.Summary.NewEntries)

	// Committing the second preview creates nothing.
	result = engine.Commit(context.Background(), again)
	require.True(t, result.Success)
	assert.Equal(t, ImportCounts{}, result.Imported)
	assert.Len(t, fake.Entries, 1)
}

func TestBuildPreview_DuplicateNamesCollapse(t *testing.T) {
	raw := normalizedHeader + "\n" +
		"Website,Acme,task one,,No,2024-03-01T09:00:00Z,2024-03-01T10:00:00Z\n" +
		"Website,ACME,task two,,No,2024-03-01T11:00:00Z,2024-03-01T12:00:00Z\n" +
		"Backend,acme,task three,,No,2024-03-01T13:00:00Z,2024-03-01T14:00:00Z\n"

	engine := NewEngine(storetest.New())
	preview, err := engine.BuildPreview(context.Background(), raw)
	require.NoError(t, err)

	// Name matching is case-insensitive, so three spellings of the same
	// client collapse into the first one seen.
	require.Len(t, preview.Clients, 1)
	assert.Equal(t, "Acme", preview.Clients[0].Name)
	assert.Len(t, preview.Projects, 2)
	assert.Len(t, preview.Entries, 3)
}

func TestBuildPreview_MatchesExistingEntities(t *testing.T) {
	fake := storetest.New()
	fake.Clients = append(fake.Clients, model.Client{ID: "c-1", Name: "acme"})
	fake.Projects = append(fake.Projects, model.Project{ID: "p-1", Name: "WEBSITE"})

	engine := NewEngine(fake)
	preview, err := engine.BuildPreview(context.Background(), acmeCSV)
	require.NoError(t, err)

	require.Len(t, preview.Clients, 1)
	assert.False(t, preview.Clients[0].IsNew)
	assert.Equal(t, "c-1", preview.Clients[0].Ref.String())

	require.Len(t, preview.Projects, 1)
	assert.False(t, preview.Projects[0].IsNew)
	assert.Equal(t, "p-1", preview.Projects[0].Ref.String())

	require.Len(t, preview.Entries, 1)
	require.NotNil(t, preview.Entries[0].ProjectRef)
	assert.Equal(t, "p-1", preview.Entries[0].ProjectRef.String())
}

func TestBuildPreview_DedupIgnoresSubSecondAndZone(t *testing.T) {
	projectID := "p-1"
	fake := storetest.New()
	fake.Projects = append(fake.Projects, model.Project{ID: projectID, Name: "Website"})
	fake.Entries = append(fake.Entries, model.TimeEntry{
		ID:          "e-1",
		Description: "Fix landing page",
		StartTime:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Duration:    3600,
		ProjectID:   &projectID,
	})

	// Same instant written with sub-second precision and a +01:00 offset.
	raw := normalizedHeader + "\n" +
		"Website,Acme,Fix landing page,design,Yes,2024-03-01T10:00:00.500+01:00,2024-03-01T11:00:00.250+01:00\n"

	engine := NewEngine(fake)
	preview, err := engine.BuildPreview(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, preview.Entries, 1)
	assert.False(t, preview.Entries[0].IsNew)
	assert.Equal(t, 0, preview.Summary.NewEntries)
}

func TestBuildPreview_RowErrorsDoNotAbort(t *testing.T) {
	raw := normalizedHeader + "\n" +
		"Website,Acme,bad row,,No,garbage,2024-03-01T10:00:00Z\n" +
		"Website,Acme,good row,,No,2024-03-01T11:00:00Z,2024-03-01T12:00:00Z\n"

	engine := NewEngine(storetest.New())
	preview, err := engine.BuildPreview(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, preview.Errors, 1)
	assert.Contains(t, preview.Errors[0], "Row 1:")
	require.Len(t, preview.Entries, 1)
	assert.Equal(t, "good row", preview.Entries[0].Description)
}

func TestBuildPreview_UnknownFormat(t *testing.T) {
	engine := NewEngine(storetest.New())
	_, err := engine.BuildPreview(context.Background(), "foo,bar\n1,2\n")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestBuildPreview_HeaderOnly(t *testing.T) {
	engine := NewEngine(storetest.New())
	preview, err := engine.BuildPreview(context.Background(), normalizedHeader+"\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"no data found"}, preview.Errors)
	assert.Empty(t, preview.Entries)
}

func TestBuildPreview_StoreReadFailureIsFatal(t *testing.T) {
	fake := storetest.New()
	fake.FailListProjects = errors.New("boom")

	engine := NewEngine(fake)
	_, err := engine.BuildPreview(context.Background(), acmeCSV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list projects")
}

func TestDedupKey(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 900_000_000, time.UTC)
	end := start.Add(time.Hour)

	zone := time.FixedZone("CET", 3600)
	sameStart := start.In(zone)
	sameEnd := end.In(zone)

	assert.Equal(t,
		dedupKey("p-1", start, end, "desc"),
		dedupKey("p-1", sameStart, sameEnd, "desc"))
	assert.NotEqual(t,
		dedupKey("p-1", start, end, "desc"),
		dedupKey("p-2", start, end, "desc"))
	assert.NotEqual(t,
		dedupKey("p-1", start, end, "desc"),
		dedupKey("p-1", start, end, "other"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "acme corp", normalizeName("  Acme Corp "))
}

package importer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownFormat is returned when the CSV header matches no known dialect.
var ErrUnknownFormat = errors.New("unrecognized CSV format")

// rowData is the typed interpretation of one CSV row: the candidate
// client, project, and time entry it mentions. Empty clientName or
// projectName means the row contributes no such candidate; hasInterval
// false means no time-entry candidate.
type rowData struct {
	clientName  string
	projectName string
	description string
	tags        []string
	billable    bool
	hourlyRate  *float64
	start       time.Time
	end         time.Time
	duration    int64
	hasInterval bool
}

// dialect is one supported source CSV convention. The dialect is selected
// once by the header pre-check, not re-detected per row.
type dialect interface {
	name() string

	// requiredColumns are the lower-cased column names that must all
	// appear in the header line for this dialect to match.
	requiredColumns() []string

	// interpret converts one row into typed candidates. Errors are
	// row-level: the caller records them and moves on.
	interpret(row Row) (rowData, error)
}

// dialects in detection order.
var dialects = []dialect{normalizedDialect{}, legacyDialect{}}

// Validate checks the header line against the known dialects without
// parsing any rows. It is the fast format gate called before a preview.
func Validate(raw string) ValidationResult {
	header := headerLine(raw)
	if strings.TrimSpace(header) == "" {
		return ValidationResult{Valid: false, Message: "file is empty"}
	}

	for _, d := range dialects {
		if headerMatches(header, d.requiredColumns()) {
			return ValidationResult{
				Valid:   true,
				Message: fmt.Sprintf("recognized %s format", d.name()),
				Dialect: d.name(),
			}
		}
	}
	return ValidationResult{
		Valid:   false,
		Message: "unrecognized CSV format: header is missing required columns",
	}
}

// detectDialect returns the dialect whose required columns all appear in
// the header line.
func detectDialect(raw string) (dialect, error) {
	header := headerLine(raw)
	for _, d := range dialects {
		if headerMatches(header, d.requiredColumns()) {
			return d, nil
		}
	}
	return nil, ErrUnknownFormat
}

func headerMatches(lowerHeader string, required []string) bool {
	for _, col := range required {
		if !strings.Contains(lowerHeader, col) {
			return false
		}
	}
	return true
}

// Columns shared by both dialects.
const (
	colProject     = "Project"
	colClient      = "Client"
	colDescription = "Description"
	colTags        = "Tags"
	colBillable    = "Billable"

	// The literal placeholder some exports use for unassigned rows.
	noClientPlaceholder = "No client"
)

// interpretCommon fills the fields both dialects share.
func interpretCommon(row Row) rowData {
	data := rowData{
		projectName: strings.TrimSpace(row[colProject]),
		description: row[colDescription],
		tags:        splitTags(row[colTags]),
		billable:    row[colBillable] == "Yes",
	}

	client := strings.TrimSpace(row[colClient])
	if client != "" && client != noClientPlaceholder {
		data.clientName = client
	}
	return data
}

// splitTags parses a comma-separated tag list, dropping empty tokens.
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ----------------------------------------------------------------------------
// Normalized dialect: ISO-8601 start_time / end_time columns.
// ----------------------------------------------------------------------------

type normalizedDialect struct{}

func (normalizedDialect) name() string { return "normalized" }

func (normalizedDialect) requiredColumns() []string {
	return []string{"project", "client", "description", "tags", "billable", "start_time", "end_time"}
}

func (normalizedDialect) interpret(row Row) (rowData, error) {
	data := interpretCommon(row)

	start, err := parseISOTimestamp(row["start_time"])
	if err != nil {
		return rowData{}, fmt.Errorf("invalid start_time %q", row["start_time"])
	}
	end, err := parseISOTimestamp(row["end_time"])
	if err != nil {
		return rowData{}, fmt.Errorf("invalid end_time %q", row["end_time"])
	}

	data.start = start
	data.end = end
	data.duration = end.Sub(start).Milliseconds() / 1000
	data.hasInterval = true
	return data, nil
}

// isoLayouts are tried in order; exports differ in sub-second precision
// and zone notation but all resolve to the same instant.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999", // no zone, assume UTC
	"2006-01-02 15:04:05",
}

func parseISOTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// ----------------------------------------------------------------------------
// Legacy dialect: spreadsheet export with separate date/time/duration columns.
// ----------------------------------------------------------------------------

type legacyDialect struct{}

func (legacyDialect) name() string { return "legacy" }

func (legacyDialect) requiredColumns() []string {
	return []string{"project", "client", "description", "tags", "billable",
		"start date", "start time", "end date", "end time"}
}

func (legacyDialect) interpret(row Row) (rowData, error) {
	data := interpretCommon(row)

	if rate := strings.TrimSpace(row["Billable Rate (USD)"]); rate != "" {
		if v, err := strconv.ParseFloat(rate, 64); err == nil {
			data.hourlyRate = &v
		}
	}

	startDate := strings.TrimSpace(row["Start Date"])
	startClock := strings.TrimSpace(row["Start Time"])
	endDate := strings.TrimSpace(row["End Date"])
	endClock := strings.TrimSpace(row["End Time"])

	// Rows with no timestamps at all still contribute client/project
	// candidates; partially filled timestamps are row errors.
	if startDate == "" && startClock == "" && endDate == "" && endClock == "" {
		return data, nil
	}

	start, err := parseLegacyTimestamp(startDate, startClock)
	if err != nil {
		return rowData{}, fmt.Errorf("invalid start: %v", err)
	}
	end, err := parseLegacyTimestamp(endDate, endClock)
	if err != nil {
		return rowData{}, fmt.Errorf("invalid end: %v", err)
	}

	duration, err := legacyDuration(row, start, end)
	if err != nil {
		return rowData{}, err
	}

	data.start = start
	data.end = end
	data.duration = duration
	data.hasInterval = true
	return data, nil
}

// legacyClockLayouts cover 12-hour clock values with and without seconds
// or a zero-padded hour.
var legacyClockLayouts = []string{
	"03:04:05 PM",
	"3:04:05 PM",
	"03:04 PM",
	"3:04 PM",
}

// parseLegacyTimestamp combines a MM/DD/YYYY date with a 12-hour clock.
// The legacy export carries no zone, so the instant is taken as UTC; the
// dedup key normalizes both dialects to the same representation.
func parseLegacyTimestamp(date, clock string) (time.Time, error) {
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("missing date or time (%q, %q)", date, clock)
	}

	d, err := time.Parse("01/02/2006", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q", date)
	}

	for _, layout := range legacyClockLayouts {
		if c, err := time.Parse(layout, strings.ToUpper(clock)); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(),
				c.Hour(), c.Minute(), c.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", clock)
}

// legacyDuration derives the entry duration in seconds: preferentially
// from the decimal-hours column, then the HH:MM:SS column, then the
// timestamps themselves.
func legacyDuration(row Row, start, end time.Time) (int64, error) {
	if dec := strings.TrimSpace(row["Duration (decimal)"]); dec != "" {
		v, err := strconv.ParseFloat(dec, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid decimal duration %q", dec)
		}
		return int64(math.Round(v * 3600)), nil
	}

	if hms := strings.TrimSpace(row["Duration (h)"]); hms != "" {
		return parseHMS(hms)
	}

	return int64(end.Sub(start) / time.Second), nil
}

// parseHMS parses an "HH:MM:SS" duration string into seconds.
func parseHMS(s string) (int64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var total int64
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total = total*60 + int64(n)
	}
	return total, nil
}

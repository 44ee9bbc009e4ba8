package papers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultPageSize is the number of papers requested per feed page.
const DefaultPageSize = 10

// DateRange restricts the feed to papers published within a recent window.
type DateRange int

const (
	DateAll DateRange = iota
	DateToday
	DateWeek
	DateMonth
	DateYear
)

var dateRangeNames = [...]string{"all", "today", "week", "month", "year"}

var dateRangeLabels = [...]string{"All time", "Today", "This week", "This month", "This year"}

// DateRanges lists every range in cycling order.
func DateRanges() []DateRange {
	return []DateRange{DateAll, DateToday, DateWeek, DateMonth, DateYear}
}

// String returns the wire value sent as date_range.
func (d DateRange) String() string {
	if d < DateAll || int(d) >= len(dateRangeNames) {
		return dateRangeNames[DateAll]
	}
	return dateRangeNames[d]
}

// Label is the human readable name shown in the filter bar.
func (d DateRange) Label() string {
	if d < DateAll || int(d) >= len(dateRangeLabels) {
		return dateRangeLabels[DateAll]
	}
	return dateRangeLabels[d]
}

// Next returns the following range, wrapping from year back to all.
func (d DateRange) Next() DateRange {
	return DateRange((int(d) + 1) % len(dateRangeNames))
}

// ParseDateRange maps a wire value to a DateRange. The empty string means all.
func ParseDateRange(value string) (DateRange, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DateAll, nil
	}
	for idx, name := range dateRangeNames {
		if name == value {
			return DateRange(idx), nil
		}
	}
	return DateAll, fmt.Errorf("unknown date range %q (valid: %s)", value, strings.Join(dateRangeNames[:], ", "))
}

func (d DateRange) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DateRange) UnmarshalText(text []byte) error {
	parsed, err := ParseDateRange(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Filter holds the criteria applied to the feed.
type Filter struct {
	Category  string    `json:"category,omitempty"`
	DateRange DateRange `json:"date_range"`
	Search    string    `json:"search,omitempty"`
}

// Normalize trims surrounding whitespace from the free-text fields.
func (f Filter) Normalize() Filter {
	f.Category = strings.TrimSpace(f.Category)
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// IsZero reports whether no criteria are active.
func (f Filter) IsZero() bool {
	return f.Normalize() == Filter{}
}

// Describe renders the active criteria for status lines.
func (f Filter) Describe() string {
	f = f.Normalize()
	parts := []string{}
	if f.Category != "" {
		parts = append(parts, "category "+f.Category)
	}
	if f.DateRange != DateAll {
		parts = append(parts, strings.ToLower(f.DateRange.Label()))
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("%q", f.Search))
	}
	if len(parts) == 0 {
		return "all papers"
	}
	return strings.Join(parts, ", ")
}

// PageQuery identifies one page of the feed.
type PageQuery struct {
	Page   int
	Limit  int
	Filter Filter
}

// Values encodes the query string for GET /papers. Inactive criteria are
// omitted.
func (q PageQuery) Values() url.Values {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("limit", strconv.Itoa(limit))
	filter := q.Filter.Normalize()
	if filter.Category != "" {
		values.Set("category", filter.Category)
	}
	if filter.DateRange != DateAll {
		values.Set("date_range", filter.DateRange.String())
	}
	if filter.Search != "" {
		values.Set("search", filter.Search)
	}
	return values
}

var publishedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// PublishedTime parses the ISO-8601 publication timestamp.
func (p Paper) PublishedTime() (time.Time, bool) {
	value := strings.TrimSpace(p.PublishedAt)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PublishedLabel formats the publication date for display, falling back to
// the raw value when it cannot be parsed.
func (p Paper) PublishedLabel() string {
	if t, ok := p.PublishedTime(); ok {
		return t.Format("Jan 2, 2006")
	}
	return strings.TrimSpace(p.PublishedAt)
}

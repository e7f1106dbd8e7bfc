package core

import (
	"sort"
	"time"
)

// DefaultColor marks events whose category has no color of its own.
const DefaultColor = "gray"

var categoryColors = map[EventCategory]string{
	CategoriaUscita:   "blue",
	CategoriaRiunione: "green",
	CategoriaCaccia:   "orange",
	CategoriaStaff:    "purple",
	CategoriaCoca:     "red",
	CategoriaZona:     "gray",
	CategoriaVDBE:     "pink",
	CategoriaVDBI:     "cyan",
	CategoriaFPD:      "brown",
}

// ColorFor returns the marker color for a category, DefaultColor when the
// category is unrecognized.
func ColorFor(c EventCategory) string {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return DefaultColor
}

type (
	// DayEvent is one calendar-cell entry: an event as it appears on a
	// single covered day. Start and End are the original instants'
	// clock times, identical on every day of a multi-day event.
	DayEvent struct {
		ID       string        `json:"id"`
		Title    string        `json:"title"`
		Start    string        `json:"start"` // HH:mm
		End      string        `json:"end"`   // HH:mm
		Category EventCategory `json:"category"`
		Color    string        `json:"color"`
	}

	// Dot is a single calendar marker.
	Dot struct {
		Key   string `json:"key"`
		Color string `json:"color"`
	}

	// MarkedDate aggregates the markers of one calendar day; same-day
	// events merge into one multi-dot cell.
	MarkedDate struct {
		Dots []Dot `json:"dots"`
	}
)

// ExpandEvents produces one DayEvent per calendar day covered by each
// event, start day through end day inclusive, keyed by YYYY-MM-DD. Within
// a day entries sort ascending by start time; the fixed-width 24-hour
// format makes the string compare safe. Events missing a title or
// category fall back to "Senza titolo" and Zona.
func ExpandEvents(events []Event) map[string][]DayEvent {
	out := make(map[string][]DayEvent)
	for _, e := range events {
		if e.Start.IsZero() || e.End.IsZero() {
			continue
		}
		title := e.Title
		if title == "" {
			title = "Senza titolo"
		}
		category := e.Category
		if category == "" {
			category = CategoriaZona
		}
		cell := DayEvent{
			ID:       e.ID,
			Title:    title,
			Start:    e.Start.Format("15:04"),
			End:      e.End.Format("15:04"),
			Category: category,
			Color:    ColorFor(category),
		}
		last := dateOnly(e.End)
		for day := dateOnly(e.Start); !day.After(last); day = day.AddDate(0, 0, 1) {
			key := day.Format("2006-01-02")
			out[key] = append(out[key], cell)
		}
	}
	for key := range out {
		cells := out[key]
		sort.SliceStable(cells, func(i, j int) bool { return cells[i].Start < cells[j].Start })
	}
	return out
}

// MarkedDates reduces the expanded calendar to per-day marker dots.
func MarkedDates(expanded map[string][]DayEvent) map[string]MarkedDate {
	out := make(map[string]MarkedDate, len(expanded))
	for day, cells := range expanded {
		dots := make([]Dot, 0, len(cells))
		for _, c := range cells {
			dots = append(dots, Dot{Key: c.ID, Color: c.Color})
		}
		out[day] = MarkedDate{Dots: dots}
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

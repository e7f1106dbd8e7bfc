package core

import "sort"

// Presence filter states for the attendance roster.
const (
	StatoTutti    StatoFiltro = ""
	StatoPresenti StatoFiltro = "presenti"
	StatoAssenti  StatoFiltro = "assenti"
)

type StatoFiltro string

// attendanceCategories are the event categories that take attendance. The
// set carries FDP verbatim from the data even though calendar events use
// the FPD spelling; both are kept so existing documents keep matching.
var attendanceCategories = map[EventCategory]bool{
	CategoriaRiunione: true,
	CategoriaCaccia:   true,
	CategoriaUscita:   true,
	CategoriaVDBE:     true,
	CategoriaVDBI:     true,
	"FDP":             true,
}

// TakesAttendance reports whether an event of this category appears on the
// attendance screen.
func (ec EventCategory) TakesAttendance() bool {
	return attendanceCategories[ec]
}

// Present reports the member's presence at an event. A missing presenze
// entry means present; this default is deliberate, always read presence
// through this function rather than the raw map.
func Present(m Member, eventID string) bool {
	if v, ok := m.Presenze[eventID]; ok {
		return v
	}
	return true
}

// PresenzeFilter selects roster rows; zero values mean "no constraint".
// The three predicates combine with logical AND.
type PresenzeFilter struct {
	Anno    string
	Stato   StatoFiltro
	EventID string
}

// FilterRoster returns the Lupetti matching the filter. The presence
// predicate applies against f.EventID.
func FilterRoster(members []Member, f PresenzeFilter) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if m.Categoria != Lupetto {
			continue
		}
		if f.Anno != "" && m.AnnoAttivita != f.Anno {
			continue
		}
		if f.Stato != StatoTutti && f.EventID != "" {
			presente := Present(m, f.EventID)
			if f.Stato == StatoPresenti && !presente {
				continue
			}
			if f.Stato == StatoAssenti && presente {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

// CountPresenze partitions the roster into present and absent for the
// given event.
func CountPresenze(members []Member, eventID string) (presenti, assenti int) {
	for _, m := range members {
		if Present(m, eventID) {
			presenti++
		} else {
			assenti++
		}
	}
	return presenti, assenti
}

// AttendanceEvents keeps the events that take attendance, sorted by start
// ascending. The first entry is the default selection.
func AttendanceEvents(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Category.TakesAttendance() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

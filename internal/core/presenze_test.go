package core

import (
	"testing"
	"time"
)

func TestPresentDefaultTrue(t *testing.T) {
	m := Member{Categoria: Lupetto, Presenze: map[string]bool{"e1": false}}
	if Present(m, "e1") {
		t.Fatalf("stored false must read absent")
	}
	if !Present(m, "e2") {
		t.Fatalf("missing key must read present")
	}
	if !Present(Member{}, "e1") {
		t.Fatalf("nil presenze map must read present")
	}
}

func TestFilterRoster(t *testing.T) {
	members := []Member{
		{ID: "a", Categoria: Lupetto, AnnoAttivita: "2023", Presenze: map[string]bool{"e1": false}},
		{ID: "b", Categoria: Lupetto, AnnoAttivita: "2023"},
		{ID: "c", Categoria: Lupetto, AnnoAttivita: "2022"},
		{ID: "d", Categoria: VVLL},
	}

	all := FilterRoster(members, PresenzeFilter{})
	if len(all) != 3 {
		t.Fatalf("staff must never appear in the roster, got %d rows", len(all))
	}

	anno := FilterRoster(members, PresenzeFilter{Anno: "2023"})
	if len(anno) != 2 {
		t.Fatalf("anno filter: got %d rows", len(anno))
	}

	assenti := FilterRoster(members, PresenzeFilter{Stato: StatoAssenti, EventID: "e1"})
	if len(assenti) != 1 || assenti[0].ID != "a" {
		t.Fatalf("assenti filter: got %v", assenti)
	}

	// Predicates combine with AND.
	both := FilterRoster(members, PresenzeFilter{Anno: "2022", Stato: StatoAssenti, EventID: "e1"})
	if len(both) != 0 {
		t.Fatalf("AND of anno+stato: got %d rows", len(both))
	}

	presenti := FilterRoster(members, PresenzeFilter{Stato: StatoPresenti, EventID: "e1"})
	if len(presenti) != 2 {
		t.Fatalf("presenti filter: got %d rows", len(presenti))
	}
}

func TestCountPresenze(t *testing.T) {
	members := []Member{
		{Presenze: map[string]bool{"e1": false}},
		{Presenze: map[string]bool{"e1": true}},
		{}, // no entry, counts present
	}
	presenti, assenti := CountPresenze(members, "e1")
	if presenti != 2 || assenti != 1 {
		t.Fatalf("got %d/%d, want 2/1", presenti, assenti)
	}
}

func TestAttendanceEvents(t *testing.T) {
	base := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "later", Title: "Caccia", Category: CategoriaCaccia, Start: base.AddDate(0, 0, 7)},
		{ID: "staff", Title: "Staff", Category: CategoriaStaff, Start: base},
		{ID: "first", Title: "Riunione", Category: CategoriaRiunione, Start: base},
		{ID: "fdp", Title: "Festa", Category: "FDP", Start: base.AddDate(0, 0, 3)},
	}
	got := AttendanceEvents(events)
	if len(got) != 3 {
		t.Fatalf("expected 3 attendance events, got %d", len(got))
	}
	if got[0].ID != "first" || got[1].ID != "fdp" || got[2].ID != "later" {
		t.Fatalf("wrong order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
	// Calendar events spelled FPD never reach the attendance screen.
	if CategoriaFPD.TakesAttendance() {
		t.Fatalf("FPD must not take attendance, only the stored FDP spelling does")
	}
}

package store

import (
	"errors"
	"testing"
)

func TestPresets_CRUD(t *testing.T) {
	repo := newTestStore(t).Presets()

	p := &Preset{
		Name: "ambient",
		Control: Control{
			FingerParameters: []string{"GrainPos", "GrainDensity"},
			FingerDrums:      []int{1, 2},
			SampleDuration:   12,
		},
	}
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID == "" {
		t.Fatal("Create() should assign an ID")
	}

	got, err := repo.GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "ambient" || got.Control.SampleDuration != 12 {
		t.Errorf("GetByID() = %+v", got)
	}
	if len(got.Control.FingerParameters) != 2 || got.Control.FingerParameters[1] != "GrainDensity" {
		t.Errorf("finger parameters = %v", got.Control.FingerParameters)
	}
	if len(got.Control.FingerDrums) != 2 || got.Control.FingerDrums[0] != 1 {
		t.Errorf("finger drums = %v", got.Control.FingerDrums)
	}

	got.Name = "drone"
	got.Control.Page = "synth"
	if err := repo.Update(got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	byName, err := repo.GetByName("drone")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if byName.ID != p.ID || byName.Control.Page != "synth" {
		t.Errorf("GetByName() = %+v", byName)
	}

	if err := repo.Delete(p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestPresets_DuplicateName(t *testing.T) {
	repo := newTestStore(t).Presets()

	if err := repo.Create(&Preset{Name: "kit"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(&Preset{Name: "kit"}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Create() duplicate error = %v, want ErrDuplicateName", err)
	}
}

func TestPresets_List(t *testing.T) {
	repo := newTestStore(t).Presets()

	presets, err := repo.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(presets) != 0 {
		t.Fatalf("List() on empty store = %d presets", len(presets))
	}

	for _, name := range []string{"a", "b", "c"} {
		if err := repo.Create(&Preset{Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	presets, err = repo.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(presets) != 3 {
		t.Errorf("List() = %d presets, want 3", len(presets))
	}
	for _, p := range presets {
		if p.Control.FingerParameters == nil || p.Control.FingerDrums == nil {
			t.Errorf("preset %s decoded nil slots", p.Name)
		}
	}
}

func TestPresets_MissingIDs(t *testing.T) {
	repo := newTestStore(t).Presets()

	if err := repo.Update(&Preset{ID: "nope", Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

package view

import (
	"reflect"
	"testing"
)

func TestDocumentElementLookup(t *testing.T) {
	d := NewDocument("a", "b")

	if _, ok := d.Element("a"); !ok {
		t.Fatal("expected element a")
	}
	if _, ok := d.Element("missing"); ok {
		t.Fatal("did not expect element missing")
	}
}

func TestDocumentPatches(t *testing.T) {
	d := NewDocument("title")
	var patches []Patch
	d.OnChange(func(p Patch) { patches = append(patches, p) })

	el, _ := d.Element("title")
	el.SetText("hello")
	el.SetText("hello") // без изменений - без патча
	el.AddClass("b", "a")
	el.AddClass("a")
	el.RemoveClass("zzz")
	el.RemoveClass("b")

	if len(patches) != 3 {
		t.Fatalf("expected 3 patches, got %d: %+v", len(patches), patches)
	}
	last := patches[2]
	if last.ID != "title" || last.Text != "hello" || !reflect.DeepEqual(last.Classes, []string{"a"}) {
		t.Fatalf("unexpected last patch: %+v", last)
	}
}

func TestDocumentSnapshotOrder(t *testing.T) {
	d := NewDocument("z", "a")
	d.Add("m", ClassHidden)

	snap := d.Snapshot()
	ids := []string{snap[0].ID, snap[1].ID, snap[2].ID}
	if !reflect.DeepEqual(ids, []string{"z", "a", "m"}) {
		t.Fatalf("unexpected order: %v", ids)
	}
	if !reflect.DeepEqual(snap[2].Classes, []string{ClassHidden}) {
		t.Fatalf("unexpected classes: %v", snap[2].Classes)
	}
}

func TestVisibilityHelpers(t *testing.T) {
	d := NewDocument("panel")
	el, _ := d.Element("panel")

	SetVisible(el, false)
	if Visible(el) {
		t.Fatal("expected hidden")
	}
	SetVisible(el, true)
	if !Visible(el) {
		t.Fatal("expected visible")
	}
}

func TestHasOnly(t *testing.T) {
	d := NewDocument("bg")
	el, _ := d.Element("bg")
	set := []string{"clear", "rain"}

	el.AddClass("rain", "layout")
	if !HasOnly(el, "rain", set) {
		t.Fatal("expected only rain")
	}
	el.AddClass("clear")
	if HasOnly(el, "rain", set) {
		t.Fatal("two theme classes must not count as one")
	}
}

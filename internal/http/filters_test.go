package httpserver

import (
	"net/url"
	"reflect"
	"testing"
)

func TestBuildSelection(t *testing.T) {
	values, _ := url.ParseQuery("ageMin=18&ageMax=35&gender=F&gender= M &occupation=student&genre=Comedy&genre=Drama")

	sel, err := buildSelection(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.AgeMin == nil || *sel.AgeMin != 18 {
		t.Fatalf("ageMin parse failed: %+v", sel.AgeMin)
	}
	if sel.AgeMax == nil || *sel.AgeMax != 35 {
		t.Fatalf("ageMax parse failed: %+v", sel.AgeMax)
	}
	if !reflect.DeepEqual(sel.Genders, []string{"F", "M"}) {
		t.Fatalf("genders not trimmed: %v", sel.Genders)
	}
	if !reflect.DeepEqual(sel.Occupations, []string{"student"}) {
		t.Fatalf("occupations parse failed: %v", sel.Occupations)
	}
	if !reflect.DeepEqual(sel.Genres, []string{"Comedy", "Drama"}) {
		t.Fatalf("genres parse failed: %v", sel.Genres)
	}
}

func TestBuildSelectionEmptyIsUnrestricted(t *testing.T) {
	sel, err := buildSelection(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sel.Unrestricted() {
		t.Fatalf("empty query should yield unrestricted selection: %+v", sel)
	}
}

func TestBuildSelectionInvalidAge(t *testing.T) {
	values, _ := url.ParseQuery("ageMin=abc")
	if _, err := buildSelection(values); err == nil {
		t.Fatalf("expected error for invalid ageMin")
	}

	values, _ = url.ParseQuery("ageMax=12.5")
	if _, err := buildSelection(values); err == nil {
		t.Fatalf("expected error for invalid ageMax")
	}
}

func TestBuildSelectionAgeMinExceedsAgeMax(t *testing.T) {
	values, _ := url.ParseQuery("ageMin=40&ageMax=20")
	if _, err := buildSelection(values); err == nil {
		t.Fatalf("expected error when ageMin > ageMax")
	}
}

func TestBuildMinRatings(t *testing.T) {
	values, _ := url.ParseQuery("minRatings=30")
	min, err := buildMinRatings(values, 50)
	if err != nil || min != 30 {
		t.Fatalf("buildMinRatings = (%d, %v), want (30, nil)", min, err)
	}

	min, err = buildMinRatings(url.Values{}, 50)
	if err != nil || min != 50 {
		t.Fatalf("fallback = (%d, %v), want (50, nil)", min, err)
	}

	values, _ = url.ParseQuery("minRatings=-1")
	if _, err := buildMinRatings(values, 0); err == nil {
		t.Fatalf("expected error for negative minRatings")
	}

	values, _ = url.ParseQuery("minRatings=abc")
	if _, err := buildMinRatings(values, 0); err == nil {
		t.Fatalf("expected error for non-numeric minRatings")
	}
}

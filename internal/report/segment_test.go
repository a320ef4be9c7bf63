package report

import (
	"errors"
	"testing"

	"github.com/Clark-Hu/movielens-reports/internal/domain"
)

func TestSegmentMatches(t *testing.T) {
	row := func(age int, gender string, genres ...string) JoinedRow {
		return JoinedRow{
			User:  domain.User{Age: age, Gender: gender},
			Movie: domain.Movie{Genres: genres},
		}
	}

	tests := []struct {
		name    string
		segment Segment
		row     JoinedRow
		want    bool
	}{
		{"general", General, row(40, "X"), true},
		{"male", Male, row(40, "M"), true},
		{"male excludes other", Male, row(40, "m"), false},
		{"female", Female, row(40, "F"), true},
		{"female excludes other", Female, row(40, "X"), false},
		{"action", Action, row(40, "M", "Action", "Sci-Fi"), true},
		{"drama missing", Drama, row(40, "M", "Comedy"), false},
		{"comedy", Comedy, row(40, "M", "Comedy"), true},
		{"fantasy exact name", Fantasy, row(40, "M", "Fantasy Epic"), false},
		{"under 18", AgeUnder18, row(17, "M"), true},
		{"under 18 boundary", AgeUnder18, row(18, "M"), false},
		{"18 to 30 lower", Age18To30, row(18, "M"), true},
		{"18 to 30 upper", Age18To30, row(29, "M"), true},
		{"18 to 30 excludes 30", Age18To30, row(30, "M"), false},
		{"above 30 boundary", AgeAbove30, row(30, "F"), true},
		{"above 30 excludes 29", AgeAbove30, row(29, "F"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.segment.Matches(tt.row); got != tt.want {
				t.Fatalf("%s.Matches() = %v, want %v", tt.segment, got, tt.want)
			}
		})
	}
}

func TestParseSegment(t *testing.T) {
	for _, s := range Segments() {
		got, err := ParseSegment(s.String())
		if err != nil {
			t.Fatalf("ParseSegment(%q) unexpected error: %v", s.String(), err)
		}
		if got != s {
			t.Fatalf("ParseSegment(%q) = %v, want %v", s.String(), got, s)
		}
	}

	if _, err := ParseSegment("Teens"); !errors.Is(err, ErrUnknownSegment) {
		t.Fatalf("ParseSegment(Teens) error = %v, want ErrUnknownSegment", err)
	}
}

func TestSegmentNames(t *testing.T) {
	want := []string{
		"General", "Male", "Female", "Action", "Drama", "Comedy", "Fantasy",
		"Age_Under18", "Age_18_30", "Age_Above30",
	}
	segments := Segments()
	if len(segments) != len(want) {
		t.Fatalf("len(Segments()) = %d, want %d", len(segments), len(want))
	}
	for i, s := range segments {
		if s.String() != want[i] {
			t.Fatalf("Segments()[%d] = %s, want %s", i, s, want[i])
		}
	}
	if got := Segment(42).String(); got != "Segment(42)" {
		t.Fatalf("Segment(42).String() = %s", got)
	}
}

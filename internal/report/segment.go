package report

import (
	"errors"
	"fmt"
)

// ErrUnknownSegment is returned when a segment name does not match any known segment.
var ErrUnknownSegment = errors.New("report: unknown segment")

// Segment identifies one of the fixed audience slices a report is computed for.
// Segments overlap: a single joined row usually belongs to several of them.
type Segment int

const (
	General Segment = iota
	Male
	Female
	Action
	Drama
	Comedy
	Fantasy
	AgeUnder18
	Age18To30
	AgeAbove30

	segmentCount
)

var segmentNames = [segmentCount]string{
	General:    "General",
	Male:       "Male",
	Female:     "Female",
	Action:     "Action",
	Drama:      "Drama",
	Comedy:     "Comedy",
	Fantasy:    "Fantasy",
	AgeUnder18: "Age_Under18",
	Age18To30:  "Age_18_30",
	AgeAbove30: "Age_Above30",
}

// Segments returns every segment in report order.
func Segments() []Segment {
	out := make([]Segment, 0, segmentCount)
	for s := General; s < segmentCount; s++ {
		out = append(out, s)
	}
	return out
}

func (s Segment) String() string {
	if s < 0 || s >= segmentCount {
		return fmt.Sprintf("Segment(%d)", int(s))
	}
	return segmentNames[s]
}

// ParseSegment resolves a segment from its report name, e.g. "Age_18_30".
func ParseSegment(name string) (Segment, error) {
	for s, n := range segmentNames {
		if n == name {
			return Segment(s), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSegment, name)
}

// Matches reports whether the joined row belongs to the segment.
func (s Segment) Matches(row JoinedRow) bool {
	switch s {
	case General:
		return true
	case Male:
		return row.User.Gender == "M"
	case Female:
		return row.User.Gender == "F"
	case Action, Drama, Comedy, Fantasy:
		return row.Movie.HasGenre(segmentNames[s])
	case AgeUnder18:
		return row.User.Age < 18
	case Age18To30:
		return row.User.Age >= 18 && row.User.Age < 30
	case AgeAbove30:
		return row.User.Age >= 30
	default:
		return false
	}
}

package report

import "sort"

// TopN is the maximum number of entries kept per segment.
const TopN = 10

// Entry is one ranked line of a segment report.
type Entry struct {
	Title   string
	Average float64
}

// Report maps every segment to its ranked entries, best first.
type Report map[Segment][]Entry

// NewReport returns a report with every segment present and empty.
func NewReport() Report {
	r := make(Report, segmentCount)
	for _, s := range Segments() {
		r[s] = []Entry{}
	}
	return r
}

type meanAcc struct {
	sum   float64
	count int
}

// Aggregate groups the rows of every segment by movie title and ranks titles by
// mean score. Titles are the grouping key, so distinct movies sharing a title
// are pooled.
func Aggregate(rows []JoinedRow) Report {
	groups := make([]map[string]*meanAcc, segmentCount)
	for i := range groups {
		groups[i] = make(map[string]*meanAcc)
	}

	for _, row := range rows {
		for _, s := range Segments() {
			if !s.Matches(row) {
				continue
			}
			acc, ok := groups[s][row.Movie.Title]
			if !ok {
				acc = &meanAcc{}
				groups[s][row.Movie.Title] = acc
			}
			acc.sum += row.Rating.Score
			acc.count++
		}
	}

	out := NewReport()
	for _, s := range Segments() {
		out[s] = rank(groups[s])
	}
	return out
}

func rank(groups map[string]*meanAcc) []Entry {
	entries := make([]Entry, 0, len(groups))
	for title, acc := range groups {
		entries = append(entries, Entry{Title: title, Average: acc.sum / float64(acc.count)})
	}
	sortEntries(entries)
	if len(entries) > TopN {
		entries = entries[:TopN]
	}
	return entries
}

// sortEntries orders by descending average, then ascending title so equal
// averages always come out in the same order.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Average == entries[j].Average {
			return entries[i].Title < entries[j].Title
		}
		return entries[i].Average > entries[j].Average
	})
}

// Package dataset loads the historical JoSAA cutoff dataset into an
// immutable in-memory table and answers filtered lookups over it.
package dataset

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/admitwise/josaa/internal/domain/model"
)

// LoadStats summarizes one load pass over the source file.
type LoadStats struct {
	TotalRows     int `json:"total_rows"`
	Loaded        int `json:"loaded"`
	RejectedRanks int `json:"rejected_ranks"`    // non-numeric or non-positive ranks
	RejectedOrder int `json:"rejected_order"`    // closing rank below opening rank
	Duplicates    int `json:"duplicate_records"` // primary-key collisions, last row wins
}

// Selection narrows a table scan. Zero values of CollegeType and Branch
// match every row; Category and RoundNo are always exact.
type Selection struct {
	Category    model.Category
	RoundNo     int
	CollegeType model.CollegeType // empty = any
	Branch      string            // lowercase; empty = any
}

// Table is the immutable, shareable in-memory form of the dataset. It is
// built once by the loader and safe for concurrent reads without locking;
// a reload produces a whole new Table which the owner publishes atomically.
type Table struct {
	rows []model.HistoricalRecord

	byCategory map[model.Category][]int
	byRound    map[int][]int
	byBranch   map[string][]int // keyed by lowercase branch

	branches     []string
	categories   []string
	collegeTypes []string
	maxRound     int

	version string
	stats   LoadStats
}

// build finalizes a table: indexes and distinct value lists.
func build(rows []model.HistoricalRecord, stats LoadStats) *Table {
	t := &Table{
		rows:       rows,
		byCategory: make(map[model.Category][]int),
		byRound:    make(map[int][]int),
		byBranch:   make(map[string][]int),
		stats:      stats,
		version:    fmt.Sprintf("%d-%d", time.Now().UnixNano(), len(rows)),
	}

	branchSet := make(map[string]string) // lowercase -> first-seen spelling
	categorySet := make(map[string]struct{})
	typeSet := make(map[string]struct{})

	for i, r := range rows {
		lb := strings.ToLower(r.Branch)
		t.byCategory[r.Category] = append(t.byCategory[r.Category], i)
		t.byRound[r.RoundNo] = append(t.byRound[r.RoundNo], i)
		t.byBranch[lb] = append(t.byBranch[lb], i)
		if _, ok := branchSet[lb]; !ok {
			branchSet[lb] = r.Branch
		}
		categorySet[string(r.Category)] = struct{}{}
		typeSet[string(r.CollegeType)] = struct{}{}
		if r.RoundNo > t.maxRound {
			t.maxRound = r.RoundNo
		}
	}

	for _, spelling := range branchSet {
		t.branches = append(t.branches, spelling)
	}
	for c := range categorySet {
		t.categories = append(t.categories, c)
	}
	for ct := range typeSet {
		t.collegeTypes = append(t.collegeTypes, ct)
	}
	sortFold(t.branches)
	sortFold(t.categories)
	sortFold(t.collegeTypes)

	return t
}

// sortFold sorts case-insensitively for deterministic option lists.
func sortFold(s []string) {
	sort.Slice(s, func(i, j int) bool {
		return strings.ToLower(s[i]) < strings.ToLower(s[j])
	})
}

// Len returns the number of rows in the table.
func (t *Table) Len() int { return len(t.rows) }

// Version identifies this build of the table. Cache keys embed it so a
// reload implicitly invalidates cached predictions.
func (t *Table) Version() string { return t.version }

// Stats returns the load statistics recorded when the table was built.
func (t *Table) Stats() LoadStats { return t.stats }

// MaxRound returns the highest counseling round present in the dataset.
func (t *Table) MaxRound() int { return t.maxRound }

// DistinctBranches returns the branch names present in the dataset, sorted
// case-insensitively, in their first-seen spelling.
func (t *Table) DistinctBranches() []string { return append([]string(nil), t.branches...) }

// DistinctCategories returns the categories present in the dataset.
func (t *Table) DistinctCategories() []string { return append([]string(nil), t.categories...) }

// DistinctCollegeTypes returns the college types present in the dataset.
func (t *Table) DistinctCollegeTypes() []string { return append([]string(nil), t.collegeTypes...) }

// Rounds returns the sorted list of rounds present in the dataset.
func (t *Table) Rounds() []int {
	rounds := make([]int, 0, len(t.byRound))
	for r := range t.byRound {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)
	return rounds
}

// HasBranch reports whether branch (any case) exists in the dataset.
func (t *Table) HasBranch(branch string) bool {
	_, ok := t.byBranch[strings.ToLower(branch)]
	return ok
}

// Select returns the rows matching sel. The scan starts from the smallest
// applicable index and verifies the remaining conditions per row, so the
// cost is proportional to the narrowest dimension rather than table size.
func (t *Table) Select(sel Selection) []model.HistoricalRecord {
	base := t.byCategory[sel.Category]
	if sel.Branch != "" {
		if byBranch := t.byBranch[sel.Branch]; len(byBranch) < len(base) {
			base = byBranch
		}
	}
	if byRound := t.byRound[sel.RoundNo]; len(byRound) < len(base) {
		base = byRound
	}

	var out []model.HistoricalRecord
	for _, i := range base {
		r := t.rows[i]
		if r.Category != sel.Category || r.RoundNo != sel.RoundNo {
			continue
		}
		if sel.CollegeType != "" && r.CollegeType != sel.CollegeType {
			continue
		}
		if sel.Branch != "" && strings.ToLower(r.Branch) != sel.Branch {
			continue
		}
		out = append(out, r)
	}
	return out
}

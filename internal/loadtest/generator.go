package loadtest

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Rank generation bands: most queries look like realistic candidates, a
// slice probes the extremes, and a few are intentionally malformed to
// exercise the validation path.
const (
	caseTypicalRank   = 0
	caseStrongRank    = 1
	caseTailRank      = 2
	caseExtremeRank   = 3
	caseMalformedRank = 4

	rankCaseCount  = 5
	typicalRankMax = 50000
	strongRankMax  = 2000
	tailRankMax    = 500000
	extremeRankMax = 2000000
)

// query is one generated prediction request body.
type query struct {
	ID             string  `json:"-"`
	JEERank        int     `json:"jee_rank"`
	Category       string  `json:"category"`
	CollegeType    string  `json:"college_type"`
	Branch         string  `json:"preferred_branch"`
	RoundNo        int     `json:"round_no"`
	MinProbability float64 `json:"min_probability"`

	wantRejected bool
}

// randomInt returns a uniform int in [1, max] using crypto/rand.
func randomInt(max int64) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(max))
	return int(n.Int64()) + 1
}

// generateQueries builds the request mix from the service's own option
// lists so every well-formed query targets real dataset values.
func generateQueries(n int, opts optionValues) []query {
	queries := make([]query, 0, n)
	for i := 0; i < n; i++ {
		q := query{
			ID:          uuid.NewString(),
			Category:    pick(opts.Categories),
			CollegeType: "ALL",
			Branch:      "ALL",
			RoundNo:     opts.Rounds[randomInt(int64(len(opts.Rounds)))-1],
		}
		if randomInt(3) == 1 {
			q.CollegeType = pick(opts.CollegeTypes)
		}
		if randomInt(3) == 1 {
			q.Branch = pick(opts.Branches)
		}
		q.MinProbability = float64(randomInt(60) - 1)

		switch randomInt(rankCaseCount) - 1 {
		case caseTypicalRank:
			q.JEERank = randomInt(typicalRankMax)
		case caseStrongRank:
			q.JEERank = randomInt(strongRankMax)
		case caseTailRank:
			q.JEERank = randomInt(tailRankMax)
		case caseExtremeRank:
			q.JEERank = randomInt(extremeRankMax)
		case caseMalformedRank:
			q.JEERank = 0
			q.wantRejected = true
		}
		queries = append(queries, q)
	}
	return queries
}

func pick(values []string) string {
	return values[randomInt(int64(len(values)))-1]
}

package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/admitwise/josaa/internal/app"
	"github.com/admitwise/josaa/internal/domain/model"
	"github.com/admitwise/josaa/internal/engine"
)

// maxPredictBody bounds the request body size for POST /predict.
const maxPredictBody = 1 << 16

// PredictDependencies defines the interface for prediction operations.
type PredictDependencies interface {
	Predict(ctx context.Context, raw engine.RawQuery) ([]model.PredictionResult, engine.Summary, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// preference mirrors the external response contract. The JSON field names
// are load-bearing: existing consumers depend on them verbatim, including
// the spaced "Admission Probability (%)" column header.
type preference struct {
	Preference  int     `json:"Preference"`
	Institute   string  `json:"Institute"`
	CollegeType string  `json:"College Type"`
	Location    string  `json:"Location,omitempty"`
	Branch      string  `json:"Branch"`
	Category    string  `json:"Category"`
	OpeningRank int     `json:"Opening_Rank"`
	ClosingRank int     `json:"Closing_Rank"`
	Probability float64 `json:"Admission Probability (%)"`
	Chance      string  `json:"Admission Chances"`
}

type predictResponse struct {
	Preferences []preference   `json:"preferences"`
	Summary     engine.Summary `json:"summary"`
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPredictBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if !gjson.ValidBytes(body) {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("body is not valid JSON"))
		return
	}

	raw := parseRawQuery(body)
	results, summary, err := h.deps.Predict(r.Context(), raw)
	if err != nil {
		status, code := predictErrorStatus(err)
		writeError(w, status, code, err)
		return
	}

	resp := predictResponse{
		Preferences: make([]preference, len(results)),
		Summary:     summary,
	}
	for i, res := range results {
		resp.Preferences[i] = preference{
			Preference:  res.Preference,
			Institute:   res.Institute,
			CollegeType: string(res.CollegeType),
			Location:    res.Location,
			Branch:      res.Branch,
			Category:    string(res.Category),
			OpeningRank: res.OpeningRank,
			ClosingRank: res.ClosingRank,
			Probability: res.Probability,
			Chance:      res.Chance,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseRawQuery extracts request fields leniently: form frontends send
// numbers as strings, and gjson coerces both forms. Semantic validation
// stays with the normalizer, the single source of truth.
func parseRawQuery(body []byte) engine.RawQuery {
	return engine.RawQuery{
		JEERank:         int(gjson.GetBytes(body, "jee_rank").Int()),
		Category:        gjson.GetBytes(body, "category").String(),
		CollegeType:     gjson.GetBytes(body, "college_type").String(),
		PreferredBranch: gjson.GetBytes(body, "preferred_branch").String(),
		RoundNo:         int(gjson.GetBytes(body, "round_no").Int()),
		MinProbability:  gjson.GetBytes(body, "min_probability").Float(),
	}
}

// predictErrorStatus maps service errors to HTTP status and reason codes.
func predictErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrNotReady):
		return http.StatusServiceUnavailable, "not_ready"
	case errors.Is(err, engine.ErrInvalidRank):
		return http.StatusBadRequest, "invalid_rank"
	case errors.Is(err, engine.ErrInvalidCategory):
		return http.StatusBadRequest, "invalid_category"
	case errors.Is(err, engine.ErrInvalidCollegeType):
		return http.StatusBadRequest, "invalid_college_type"
	case errors.Is(err, engine.ErrUnknownBranch):
		return http.StatusBadRequest, "unknown_branch"
	case errors.Is(err, engine.ErrInvalidRound):
		return http.StatusBadRequest, "invalid_round"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "cancelled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

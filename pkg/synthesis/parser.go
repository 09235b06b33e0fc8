package synthesis

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/soundprediction/go-kag/pkg/types"
)

type responseTriplet struct {
	Subject    string   `json:"subject"`
	Relation   string   `json:"relation"`
	Object     string   `json:"object"`
	Sentence   string   `json:"sentence"`
	Confidence *float64 `json:"confidence"`
}

// parseTriplets extracts triplets from a model response. It takes the
// substring between the first '[' and the last ']' as a JSON array,
// running it through jsonrepair once if it does not parse as is.
// Objects missing any of subject, relation or object are discarded
// with a warning. An empty or arrayless response yields an empty list;
// parse failures are soft and never abort the caller.
func parseTriplets(response string, level int, logger *slog.Logger) []types.Triplet {
	if strings.TrimSpace(response) == "" {
		logger.Warn("empty completion, no relations extracted", "level", level)
		return nil
	}

	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start < 0 || end <= start {
		logger.Warn("no JSON array found in completion", "level", level)
		return nil
	}
	candidate := response[start : end+1]

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(candidate)
		if repairErr != nil {
			logger.Warn("discarding unparsable completion", "level", level, "error", err)
			return nil
		}
		if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
			logger.Warn("discarding unparsable completion after repair", "level", level, "error", err)
			return nil
		}
	}

	var triplets []types.Triplet
	for i, msg := range raw {
		var rt responseTriplet
		if err := json.Unmarshal(msg, &rt); err != nil {
			logger.Warn("discarding malformed triplet object", "level", level, "index", i, "error", err)
			continue
		}
		if rt.Subject == "" || rt.Relation == "" || rt.Object == "" {
			logger.Warn("discarding incomplete triplet object", "level", level, "index", i)
			continue
		}
		triplets = append(triplets, types.Triplet{
			Subject:    rt.Subject,
			Relation:   rt.Relation,
			Object:     rt.Object,
			Sentence:   rt.Sentence,
			Confidence: rt.Confidence,
			Level:      level,
		})
	}
	return triplets
}

package sim

import "sort"

// Prediction is one candidate next activity with its transition probability.
type Prediction struct {
	Activity    string  `json:"activity"`
	Probability float64 `json:"probability"`
}

// PredictNext returns the top-k most likely successors of the given
// activity under the first-order model, ordered by descending probability
// (ties broken by activity name). Terminal or unknown activities yield an
// empty slice.
func PredictNext(table *TransitionTable, activity string, k int) []Prediction {
	row := table.OutgoingProbabilities(activity)
	if len(row) == 0 {
		return nil
	}

	predictions := make([]Prediction, 0, len(row))
	for target, prob := range row {
		predictions = append(predictions, Prediction{Activity: target, Probability: prob})
	}
	sort.Slice(predictions, func(i, j int) bool {
		if predictions[i].Probability != predictions[j].Probability {
			return predictions[i].Probability > predictions[j].Probability
		}
		return predictions[i].Activity < predictions[j].Activity
	})
	if k < len(predictions) {
		predictions = predictions[:k]
	}
	return predictions
}

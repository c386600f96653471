package domain

// Confirmation layer names, in the fixed evaluation/reporting order.
const (
	LayerBreadth       = "BREADTH"
	LayerInstitutional = "INSTITUTIONAL"
	LayerOptions       = "OPTIONS"
	LayerSentiment     = "SENTIMENT"
	LayerEvents        = "EVENTS"
)

// LayerResult is the output of one confirmation layer. Layers are advisory:
// they perturb scores and labels but never override a hard block.
type LayerResult struct {
	Layer           string             `json:"layer"`
	Signal          LayerSignal        `json:"signal"`
	Confidence      Confidence         `json:"confidence"`
	ScoreAdjustment int                `json:"score_adjustment"` // small signed integer, typically -5..+5
	Reasons         []string           `json:"reasons"`
	Flags           []ConfirmationFlag `json:"flags,omitempty"`
	DataAvailable   bool               `json:"data_available"`
}

// ConfirmationResult aggregates the five layers.
// Invariant: NetAdjustment is the arithmetic sum of the layer adjustments.
type ConfirmationResult struct {
	Symbol        string             `json:"symbol"`
	Layers        []LayerResult      `json:"layers"` // BREADTH, INSTITUTIONAL, OPTIONS, SENTIMENT, EVENTS
	NetAdjustment int                `json:"net_adjustment"`
	OverallSignal OverallSignal      `json:"overall_signal"`
	Flags         []ConfirmationFlag `json:"flags,omitempty"`
}

// Layer returns the named layer result, or a zero LayerResult when absent.
func (c ConfirmationResult) Layer(name string) (LayerResult, bool) {
	for _, l := range c.Layers {
		if l.Layer == name {
			return l, true
		}
	}
	return LayerResult{}, false
}

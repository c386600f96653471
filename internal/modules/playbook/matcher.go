package playbook

import (
	"github.com/rs/zerolog"
)

// Match is the result of a successful playbook evaluation.
type Match struct {
	Name       string `json:"name"`
	Guidance   string `json:"guidance"`
	InstanceID string `json:"instance_id"`
}

// Engine matches the signal state against the playbook library and logs
// every shown match. Logging happens at evaluation time, unconditionally:
// whether anyone acts on the guidance is invisible to the tracker, which is
// what keeps the outcome data survivorship-free.
type Engine struct {
	store *Store
	log   zerolog.Logger
}

// NewEngine creates the playbook engine. The store may be nil in pure
// evaluation contexts (tests); matches are then returned without logging.
func NewEngine(store *Store, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		log:   log.With().Str("component", "playbook").Logger(),
	}
}

// Evaluate walks the definitions in precedence order and returns the first
// match, or nil when nothing fires. Nil is an ordinary outcome, not an
// error.
func (e *Engine) Evaluate(in MatchInput) *Match {
	for _, def := range definitions {
		if !def.Matches(in) {
			continue
		}
		m := &Match{Name: def.Name, Guidance: def.Guidance}
		if e.store != nil {
			inst, err := e.store.Append(in, def.Name)
			if err != nil {
				e.log.Error().Err(err).Str("symbol", in.Symbol).Str("playbook", def.Name).Msg("Playbook instance log failed")
			} else {
				m.InstanceID = inst.ID
			}
		}
		return m
	}
	return nil
}

// Package advisor turns observations, forecast day summaries and health
// indices into recommendations. Generators are built from ordered rule
// ladders applied to a per-call accumulator: later rules see, and may
// rewrite, what earlier rules produced.
package advisor

// Rule is one step of a ladder. A nil When always matches.
type Rule[In, Acc any] struct {
	When  func(in In, acc *Acc) bool
	Apply func(in In, acc *Acc)
}

// Ladder is an ordered list of rules.
type Ladder[In, Acc any] []Rule[In, Acc]

// Run applies every matching rule in order.
func (l Ladder[In, Acc]) Run(in In, acc *Acc) {
	for _, r := range l {
		if r.When == nil || r.When(in, acc) {
			r.Apply(in, acc)
		}
	}
}

// First applies only the first matching rule and reports whether one matched.
func (l Ladder[In, Acc]) First(in In, acc *Acc) bool {
	for _, r := range l {
		if r.When == nil || r.When(in, acc) {
			r.Apply(in, acc)
			return true
		}
	}
	return false
}

// Package effects defines side effects as data structures.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects describe what should happen after a lead transition, not how.
package effects

// Step names identify which side-effect step an effect belongs to.
const (
	StepPhoneReveal = "phone_reveal"
	StepAutoCall    = "auto_call"
)

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// RevealPhoneEffect asks the shell to populate the lead's phone number.
type RevealPhoneEffect struct {
	LeadID     string
	ProfileRef string // normalized profile reference used as the cache key
}

func (e RevealPhoneEffect) EffectType() string { return "reveal_phone" }

// PlaceCallEffect asks the shell to dispatch an outbound call immediately.
type PlaceCallEffect struct {
	LeadID string
}

func (e PlaceCallEffect) EffectType() string { return "place_call" }

// QueueCallEffect records that the call is deferred to batch processing.
type QueueCallEffect struct {
	LeadID string
}

func (e QueueCallEffect) EffectType() string { return "queue_call" }

// SkipEffect records a step that was planned out, with the reason.
type SkipEffect struct {
	Step   string
	Reason string
}

func (e SkipEffect) EffectType() string { return "skip" }

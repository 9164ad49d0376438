package lead

import (
	"strings"

	"github.com/example/outreach/internal/core/effects"
)

// SideEffectPlanContext provides context for planning post-acceptance side effects.
type SideEffectPlanContext struct {
	LeadID          string
	ProfileRef      string
	CurrentPhone    string
	AutoCallEnabled bool
	BatchMode       bool
}

// PlanSideEffects returns the ordered effects to run after a request_accepted transition.
// The phone step always precedes the call step so a revealed number can be dialed.
func PlanSideEffects(ctx SideEffectPlanContext) []effects.Effect {
	var plan []effects.Effect

	if strings.TrimSpace(ctx.CurrentPhone) != "" {
		plan = append(plan, effects.SkipEffect{
			Step:   effects.StepPhoneReveal,
			Reason: "lead already has a phone number",
		})
	} else {
		plan = append(plan, effects.RevealPhoneEffect{
			LeadID:     ctx.LeadID,
			ProfileRef: ctx.ProfileRef,
		})
	}

	switch {
	case !ctx.AutoCallEnabled:
		plan = append(plan, effects.SkipEffect{
			Step:   effects.StepAutoCall,
			Reason: "auto-call disabled",
		})
	case ctx.BatchMode:
		plan = append(plan, effects.QueueCallEffect{LeadID: ctx.LeadID})
	default:
		plan = append(plan, effects.PlaceCallEffect{LeadID: ctx.LeadID})
	}

	return plan
}

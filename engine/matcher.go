package engine

import (
	"strings"

	"github.com/botweave/botweave/logger"
	"github.com/botweave/botweave/model"
	"go.uber.org/zap"
)

// findMatchingFlow scans active flows in store order and returns the first
// one the event satisfies. No match is a silent no-op, not an error.
func (e *Engine) findMatchingFlow(event model.AutomationEvent) *model.Flow {
	flows, err := e.storage.GetFlows()
	if err != nil {
		logger.Error("error loading flows for matching", zap.Error(err))
		return nil
	}
	for i := range flows {
		flow := &flows[i]
		if !flow.Active {
			continue
		}
		if flowMatches(flow, event) {
			return flow
		}
	}
	return nil
}

func flowMatches(flow *model.Flow, event model.AutomationEvent) bool {
	if flow.TriggerType != event.Type && flow.TriggerType != model.EVENT_KEYWORD {
		return false
	}
	if flow.TriggerAccountId != "" &&
		event.TargetAccountId != model.VIRTUAL_TEST_ACCOUNT &&
		flow.TriggerAccountId != event.TargetAccountId {
		return false
	}
	// keyword-typed flows always filter on text; conversational events also
	// filter when the flow configures a keyword. Everything else matches on
	// type alone.
	if flow.TriggerType == model.EVENT_KEYWORD || (event.Type.Conversational() && flow.TriggerKeyword != "") {
		text := event.Payload.Text
		if text == "" {
			return false
		}
		return strings.Contains(strings.ToLower(text), strings.ToLower(flow.TriggerKeyword))
	}
	return true
}

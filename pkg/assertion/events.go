package assertion

import (
	"github.com/kittclouds/gokitt/pkg/model"
)

// eventPredicates maps predicates that denote a narrative event (rather
// than a static relation) to the event type they anchor.
var eventPredicates = map[string]model.EventType{
	"travels_to":  model.EventMove,
	"discovers":   model.EventLearn,
	"speaks_to":   model.EventTell,
	"attacks":     model.EventAttack,
	"transfers_to": model.EventTransfer,
}

// EventEligible reports whether an assertion clears the event eligibility
// gate: a recognized event predicate, Fact modality, and non-negated.
func EventEligible(a model.Assertion) (model.EventType, bool) {
	if a.Modality != model.ModalityFact {
		return 0, false
	}
	t, ok := eventPredicates[a.Predicate]
	return t, ok
}

// BuildEvents promotes eligible assertions into StoryEvents, assigning a
// deterministic OrderIndex by input order.
func BuildEvents(assertions []model.Assertion) []model.StoryEvent {
	var events []model.StoryEvent
	for i, a := range assertions {
		t, ok := EventEligible(a)
		if !ok {
			continue
		}
		events = append(events, model.StoryEvent{
			ID:   "event-" + itoa(i),
			Type: t,
			Participants: []model.Participant{
				{Entity: a.Subject, Role: model.RoleAgent},
				{Entity: a.Object, Role: model.RolePatient},
			},
			Evidence:   a.Evidence,
			OrderIndex: int64(i),
		})
	}
	return events
}

// BuildFacts materializes a deduplicated set of Facts from assertions,
// keyed on the (predicate, subject, object) triple.
func BuildFacts(assertions []model.Assertion) []model.Fact {
	seen := make(map[string]struct{})
	var facts []model.Fact
	for _, a := range assertions {
		if a.ObjectIsRaw {
			continue
		}
		f := model.Fact{Predicate: a.Predicate, Subject: a.Subject, Object: a.Object}
		key := f.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		facts = append(facts, f)
	}
	return facts
}

package game

import (
	"strings"

	"github.com/dekarrin/nightrunner/internal/command"
	"github.com/dekarrin/nightrunner/internal/world"
)

// runEvent finds the event that cmd triggers in the current room and applies
// it. If no event is triggered, the subject's default text is given instead.
func (e *Engine) runEvent(cmd command.Command) (Outcome, error) {
	if cmd.Subject != 0 && !e.state.SubjectIn(e.state.Room, cmd.Subject) {
		return Outcome{}, notPresent()
	}
	if cmd.Item != 0 && !(e.state.Carrying(cmd.Item) || e.state.InStash(e.state.Room, cmd.Item)) {
		return Outcome{}, notPresent()
	}

	ev, ok := e.findEvent(cmd)
	if !ok {
		text := "Nothing happens."
		if cmd.Subject != 0 {
			if subj, ok := e.cat.Subject(cmd.Subject); ok && subj.DefaultText != "" {
				text = subj.DefaultText
			}
		}
		return Outcome{Kind: OutcomeSubjectNoEvent, Text: text}, nil
	}

	// applied to a copy so that a failure to render the message leaves the
	// game as it was.
	next := e.state.Copy()
	msg, err := applyEvent(e.cat, &next, ev)
	if err != nil {
		return Outcome{}, err
	}
	e.state = next

	return Outcome{Kind: OutcomeEventSuccess, Event: msg}, nil
}

// findEvent returns the first event of the current room that is triggered by
// cmd and whose requirements are met.
func (e *Engine) findEvent(cmd command.Command) (world.Event, bool) {
	room, _ := e.cat.Room(e.state.Room)

	for _, id := range room.Events {
		ev, ok := e.cat.Event(id)
		if !ok || ev.Location != e.state.Room {
			continue
		}
		if e.state.Completed[ev.ID] {
			continue
		}
		if ev.RequiredVerb != cmd.Verb || ev.RequiredSubject != cmd.Subject || ev.RequiredItem != cmd.Item {
			continue
		}
		if !e.requirementsMet(ev) {
			continue
		}
		return ev, true
	}

	return world.Event{}, false
}

func (e *Engine) requirementsMet(ev world.Event) bool {
	for _, req := range ev.RequiredEvents {
		if !e.state.Completed[req] {
			return false
		}
	}
	return true
}

// applyEvent makes every change ev calls for to st and builds the message
// that describes it.
func applyEvent(cat *world.Catalog, st *State, ev world.Event) (EventMessage, error) {
	var eventText strings.Builder

	// things the event acts on stay nameable by its narrative even once it has
	// moved them or the player out of sight.
	touchedItems := append([]int(nil), st.Stashes[ev.Location]...)
	touchedSubjects := append([]int(nil), st.Subjects[ev.Location]...)
	if ev.RequiredSubject != 0 {
		touchedSubjects = append(touchedSubjects, ev.RequiredSubject)
	}
	if ev.AddSubject != 0 {
		touchedSubjects = append(touchedSubjects, ev.AddSubject)
	}

	st.Completed[ev.ID] = true

	if ev.RemoveItem != 0 {
		st.Stashes[ev.Location] = removeID(st.Stashes[ev.Location], ev.RemoveItem)
		if st.Carrying(ev.RemoveItem) {
			st.Inventory = removeID(st.Inventory, ev.RemoveItem)
			it, _ := cat.Item(ev.RemoveItem)
			eventText.WriteString(droppedItemText(it))
		}
		touchedItems = append(touchedItems, ev.RemoveItem)
	}

	if ev.AddItem != 0 {
		if !st.Carrying(ev.AddItem) {
			st.Inventory = append(st.Inventory, ev.AddItem)
		}
		it, _ := cat.Item(ev.AddItem)
		eventText.WriteString(newItemText(it))
		touchedItems = append(touchedItems, ev.AddItem)
	}

	if ev.AddSubject != 0 && !st.SubjectIn(ev.Location, ev.AddSubject) {
		st.Subjects[ev.Location] = append(st.Subjects[ev.Location], ev.AddSubject)
	}
	if ev.RemoveSubject {
		st.Subjects[ev.Location] = removeID(st.Subjects[ev.Location], ev.RequiredSubject)
	}
	if ev.MoveSubjectTo != 0 {
		st.Subjects[ev.Location] = removeID(st.Subjects[ev.Location], ev.RequiredSubject)
		if !st.SubjectIn(ev.MoveSubjectTo, ev.RequiredSubject) {
			st.Subjects[ev.MoveSubjectTo] = append(st.Subjects[ev.MoveSubjectTo], ev.RequiredSubject)
		}
	}

	narr, _ := cat.Narrative(ev.Narrative)
	roomText := narr.Text
	if ev.RemoveOldNarrative {
		st.Narratives[ev.Location] = ev.Narrative
	} else if active, ok := cat.Narrative(st.Narratives[ev.Location]); ok {
		roomText = active.Text + "\n\n" + narr.Text
	}

	// the message describes the room the event happened in, even when the
	// event then takes the player elsewhere.
	msg, err := buildEventMessage(cat, *st, roomText, eventText.String(), touchedItems, touchedSubjects)
	if err != nil {
		return EventMessage{}, err
	}

	if ev.Destination != 0 {
		st.Room = ev.Destination
	}

	return msg, nil
}

package game

import (
	"fmt"
	"strings"

	"github.com/dekarrin/nightrunner/internal/nrerrors"
	"github.com/dekarrin/nightrunner/internal/util"
	"github.com/dekarrin/nightrunner/internal/world"
)

// templater fills in {name} placeholders in narrative text. Names are matched
// without regard to case against the names in scope, and each filled-in name
// is recorded once, in the order first seen.
type templater struct {
	scope map[string]string
	words []string
	seen  map[string]bool
}

// newTemplater creates a templater whose scope is everything the player can
// see or has in st, plus the given extra items and subjects.
func newTemplater(cat *world.Catalog, st State, extraItems, extraSubjects []int) *templater {
	tp := &templater{
		scope: map[string]string{},
		seen:  map[string]bool{},
	}

	var itemIDs []int
	itemIDs = append(itemIDs, st.Inventory...)
	itemIDs = append(itemIDs, st.Stashes[st.Room]...)
	itemIDs = append(itemIDs, extraItems...)
	for _, id := range itemIDs {
		if it, ok := cat.Item(id); ok {
			tp.scope[world.Fold(it.Name)] = it.Name
		}
	}
	subjIDs := append(append([]int(nil), st.Subjects[st.Room]...), extraSubjects...)
	for _, id := range subjIDs {
		if subj, ok := cat.Subject(id); ok {
			tp.scope[world.Fold(subj.Name)] = subj.Name
		}
	}

	return tp
}

// Expand replaces every placeholder in text. A '{' with no closing '}' is
// left as-is.
func (tp *templater) Expand(text string) (string, error) {
	var sb strings.Builder

	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(text[open+1:], '}')
		if closing < 0 {
			break
		}
		closing += open + 1

		ref := text[open+1 : closing]
		name, ok := tp.scope[world.Fold(ref)]
		if !ok {
			return "", nrerrors.Newt(
				nrerrors.TemplateReference,
				fmt.Sprintf("There was an error parsing the text for the room: nothing called %q is here.", ref),
				fmt.Sprintf("narrative placeholder {%s} does not name an item or subject in scope", ref),
			)
		}

		sb.WriteString(text[:open])
		sb.WriteString(name)
		if !tp.seen[name] {
			tp.seen[name] = true
			tp.words = append(tp.words, name)
		}

		text = text[closing+1:]
	}
	sb.WriteString(text)

	return sb.String(), nil
}

// Words returns the names filled in so far.
func (tp *templater) Words() []string {
	return append([]string{}, tp.words...)
}

// exitsText lists the exits of a room along with the description of the room
// each one leads to.
func exitsText(cat *world.Catalog, roomID int) string {
	r, ok := cat.Room(roomID)
	if !ok || len(r.Exits) == 0 {
		return ""
	}

	lines := make([]string, 0, len(r.Exits))
	for _, ex := range r.Exits {
		dest, ok := cat.Room(ex.RoomID)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("to the %s you see %s", ex.Direction, dest.Description))
	}

	return "Exits:\n" + strings.Join(lines, "\n")
}

// buildEventMessage expands roomText and eventText against st and assembles
// the full message for the room the player is in.
func buildEventMessage(cat *world.Catalog, st State, roomText, eventText string, touchedItems, touchedSubjects []int) (EventMessage, error) {
	tp := newTemplater(cat, st, touchedItems, touchedSubjects)

	room, err := tp.Expand(roomText)
	if err != nil {
		return EventMessage{}, err
	}
	event, err := tp.Expand(eventText)
	if err != nil {
		return EventMessage{}, err
	}
	exits := exitsText(cat, st.Room)

	return EventMessage{
		Message: room + "\n" + event + "\n\n" + exits,
		Parts: MessageParts{
			RoomText:  room,
			EventText: event,
			Exits:     exits,
		},
		TemplatedWords: tp.Words(),
	}, nil
}

// lookText describes the room the player is in and lists what is there.
func lookText(cat *world.Catalog, st State) string {
	r, _ := cat.Room(st.Room)

	var present []string
	for _, id := range st.Stashes[st.Room] {
		if it, ok := cat.Item(id); ok {
			present = append(present, util.WithArticle(it.Name))
		}
	}
	for _, id := range st.Subjects[st.Room] {
		if subj, ok := cat.Subject(id); ok {
			present = append(present, subj.Name)
		}
	}

	if len(present) == 0 {
		return r.Description
	}
	return r.Description + "\nHere you see: \n\n" + strings.Join(present, "\n")
}

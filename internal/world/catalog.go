package world

// File catalog.go includes the Catalog and the checks run on a Definition
// before it becomes one.

import (
	"fmt"
	"strings"
)

// Catalog is a checked, read-only world. Every reference between records in a
// Catalog is guaranteed to point at a record that exists. A Catalog is safe to
// share between any number of sessions; none of its methods modify it, and
// values returned from it must not be modified by callers.
//
// The zero-value of Catalog is not ready for use; create one with
// [NewCatalog].
type Catalog struct {
	verbs      map[int]Verb
	items      map[int]Item
	subjects   map[int]Subject
	narratives map[int]Narrative
	events     map[int]Event
	rooms      map[int]Room

	verbOrder    []int
	itemOrder    []int
	subjectOrder []int
	eventOrder   []int
	roomOrder    []int

	intro string
	start int
}

// NewCatalog checks the given Definition and builds a Catalog from it. The
// Definition is copied; later changes to it do not affect the Catalog.
//
// An error is returned if any id is duplicated within its kind, any reference
// points at a record that does not exist, two vocabulary words collide, or an
// event is not consistent with the room that lists it.
func NewCatalog(def Definition) (*Catalog, error) {
	cat := &Catalog{
		verbs:      make(map[int]Verb, len(def.Verbs)),
		items:      make(map[int]Item, len(def.Items)),
		subjects:   make(map[int]Subject, len(def.Subjects)),
		narratives: make(map[int]Narrative, len(def.Narratives)),
		events:     make(map[int]Event, len(def.Events)),
		rooms:      make(map[int]Room, len(def.Rooms)),
		intro:      def.Intro,
	}

	// first pass: gather ids so that every reference can be checked on the
	// second pass.
	for i, v := range def.Verbs {
		if err := checkNewID(v.ID, cat.verbs); err != nil {
			return nil, fmt.Errorf("allowed_verbs[%d]: %w", i, err)
		}
		v.Names = copyStrings(v.Names)
		cat.verbs[v.ID] = v
		cat.verbOrder = append(cat.verbOrder, v.ID)
	}
	for i, it := range def.Items {
		if err := checkNewID(it.ID, cat.items); err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		cat.items[it.ID] = it
		cat.itemOrder = append(cat.itemOrder, it.ID)
	}
	for i, subj := range def.Subjects {
		if err := checkNewID(subj.ID, cat.subjects); err != nil {
			return nil, fmt.Errorf("subjects[%d]: %w", i, err)
		}
		cat.subjects[subj.ID] = subj
		cat.subjectOrder = append(cat.subjectOrder, subj.ID)
	}
	for i, narr := range def.Narratives {
		if err := checkNewID(narr.ID, cat.narratives); err != nil {
			return nil, fmt.Errorf("narratives[%d]: %w", i, err)
		}
		cat.narratives[narr.ID] = narr
	}
	for i, ev := range def.Events {
		if err := checkNewID(ev.ID, cat.events); err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		ev.RequiredEvents = copyInts(ev.RequiredEvents)
		cat.events[ev.ID] = ev
		cat.eventOrder = append(cat.eventOrder, ev.ID)
	}
	for i, r := range def.Rooms {
		if err := checkNewID(r.ID, cat.rooms); err != nil {
			return nil, fmt.Errorf("rooms[%d]: %w", i, err)
		}
		r.Exits = append([]Exit(nil), r.Exits...)
		r.Stash = copyInts(r.Stash)
		r.Events = copyInts(r.Events)
		r.Subjects = copyInts(r.Subjects)
		cat.rooms[r.ID] = r
		cat.roomOrder = append(cat.roomOrder, r.ID)
	}

	if len(cat.roomOrder) < 1 {
		return nil, fmt.Errorf("rooms: world must have at least one room")
	}

	// second pass: references and consistency
	if err := cat.checkVocabulary(); err != nil {
		return nil, err
	}
	for _, id := range cat.eventOrder {
		if err := cat.checkEvent(cat.events[id]); err != nil {
			return nil, fmt.Errorf("events[id=%d]: %w", id, err)
		}
	}
	for _, id := range cat.roomOrder {
		if err := cat.checkRoom(cat.rooms[id]); err != nil {
			return nil, fmt.Errorf("rooms[id=%d]: %w", id, err)
		}
	}

	cat.start = def.StartRoom
	if cat.start == 0 {
		cat.start = cat.roomOrder[0]
	} else if _, ok := cat.rooms[cat.start]; !ok {
		return nil, fmt.Errorf("start_room: no room with id %d exists", cat.start)
	}

	return cat, nil
}

func checkNewID[V any](id int, existing map[int]V) error {
	if id < 1 {
		return fmt.Errorf("id: must be a positive integer but is %d", id)
	}
	if _, ok := existing[id]; ok {
		return fmt.Errorf("id: %d is already used by another record of the same kind", id)
	}
	return nil
}

// checkVocabulary makes sure that every word the player can type refers to at
// most one thing.
func (cat *Catalog) checkVocabulary() error {
	seen := map[string]string{}

	claim := func(word, owner string) error {
		folded := Fold(word)
		if folded == "" {
			return fmt.Errorf("%s: name cannot be blank", owner)
		}
		if strings.ContainsAny(folded, "{}") {
			return fmt.Errorf("%s: name %q cannot contain '{' or '}'", owner, word)
		}
		if prev, ok := seen[folded]; ok {
			return fmt.Errorf("%s: name %q is already used by %s", owner, word, prev)
		}
		seen[folded] = owner
		return nil
	}

	for _, id := range cat.verbOrder {
		v := cat.verbs[id]
		if len(v.Names) < 1 {
			return fmt.Errorf("allowed_verbs[id=%d]: names: must have at least one name", id)
		}
		owner := fmt.Sprintf("allowed_verbs[id=%d]", id)
		for _, name := range v.Names {
			if err := claim(name, owner); err != nil {
				return err
			}
		}
	}
	for _, id := range cat.itemOrder {
		if err := claim(cat.items[id].Name, fmt.Sprintf("items[id=%d]", id)); err != nil {
			return err
		}
	}
	for _, id := range cat.subjectOrder {
		if err := claim(cat.subjects[id].Name, fmt.Sprintf("subjects[id=%d]", id)); err != nil {
			return err
		}
	}

	return nil
}

func (cat *Catalog) checkEvent(ev Event) error {
	if _, ok := cat.rooms[ev.Location]; !ok {
		return fmt.Errorf("location: no room with id %d exists", ev.Location)
	}
	if ev.Destination != 0 {
		if _, ok := cat.rooms[ev.Destination]; !ok {
			return fmt.Errorf("destination: no room with id %d exists", ev.Destination)
		}
	}
	if _, ok := cat.narratives[ev.Narrative]; !ok {
		return fmt.Errorf("narrative: no narrative with id %d exists", ev.Narrative)
	}
	if _, ok := cat.verbs[ev.RequiredVerb]; !ok {
		return fmt.Errorf("required_verb: no verb with id %d exists", ev.RequiredVerb)
	}
	if ev.RequiredSubject == 0 && ev.RequiredItem == 0 {
		return fmt.Errorf("event must have a required_subject, a required_item, or both")
	}
	if ev.RequiredSubject != 0 {
		if _, ok := cat.subjects[ev.RequiredSubject]; !ok {
			return fmt.Errorf("required_subject: no subject with id %d exists", ev.RequiredSubject)
		}
	}
	if ev.RequiredItem != 0 {
		if _, ok := cat.items[ev.RequiredItem]; !ok {
			return fmt.Errorf("required_item: no item with id %d exists", ev.RequiredItem)
		}
	}
	if ev.AddItem != 0 {
		it, ok := cat.items[ev.AddItem]
		if !ok {
			return fmt.Errorf("add_item: no item with id %d exists", ev.AddItem)
		}
		if !it.CanPick {
			return fmt.Errorf("add_item: item %d (%q) cannot be picked up so it cannot be given to the player", it.ID, it.Name)
		}
	}
	if ev.RemoveItem != 0 {
		if _, ok := cat.items[ev.RemoveItem]; !ok {
			return fmt.Errorf("remove_item: no item with id %d exists", ev.RemoveItem)
		}
	}
	if ev.AddSubject != 0 {
		if _, ok := cat.subjects[ev.AddSubject]; !ok {
			return fmt.Errorf("add_subject: no subject with id %d exists", ev.AddSubject)
		}
	}
	if ev.MoveSubjectTo != 0 {
		if ev.RequiredSubject == 0 {
			return fmt.Errorf("move_subject_to_location: event has no required_subject to move")
		}
		if _, ok := cat.rooms[ev.MoveSubjectTo]; !ok {
			return fmt.Errorf("move_subject_to_location: no room with id %d exists", ev.MoveSubjectTo)
		}
	}
	if ev.RemoveSubject && ev.RequiredSubject == 0 {
		return fmt.Errorf("remove_subject: event has no required_subject to remove")
	}
	for i, req := range ev.RequiredEvents {
		if _, ok := cat.events[req]; !ok {
			return fmt.Errorf("required_events[%d]: no event with id %d exists", i, req)
		}
		if req == ev.ID {
			return fmt.Errorf("required_events[%d]: event cannot require itself", i)
		}
	}
	return nil
}

func (cat *Catalog) checkRoom(r Room) error {
	if _, ok := cat.narratives[r.Narrative]; !ok {
		return fmt.Errorf("narrative: no narrative with id %d exists", r.Narrative)
	}

	seenDirs := map[Direction]bool{}
	for i, ex := range r.Exits {
		if ex.Direction == DirNone {
			return fmt.Errorf("exits[%d]: direction is not set", i)
		}
		if seenDirs[ex.Direction] {
			return fmt.Errorf("exits[%d]: room already has an exit to the %s", i, ex.Direction)
		}
		seenDirs[ex.Direction] = true

		if _, ok := cat.rooms[ex.RoomID]; !ok {
			return fmt.Errorf("exits[%d]: no room with id %d exists", i, ex.RoomID)
		}
	}
	for i, itemID := range r.Stash {
		if _, ok := cat.items[itemID]; !ok {
			return fmt.Errorf("stash[%d]: no item with id %d exists", i, itemID)
		}
	}
	for i, subjID := range r.Subjects {
		if _, ok := cat.subjects[subjID]; !ok {
			return fmt.Errorf("subjects[%d]: no subject with id %d exists", i, subjID)
		}
	}
	for i, evID := range r.Events {
		ev, ok := cat.events[evID]
		if !ok {
			return fmt.Errorf("room_events[%d]: no event with id %d exists", i, evID)
		}
		if ev.Location != r.ID {
			return fmt.Errorf("room_events[%d]: event %d has location %d, not this room", i, evID, ev.Location)
		}
	}
	return nil
}

// Intro returns the text shown before the game starts.
func (cat *Catalog) Intro() string {
	return cat.intro
}

// StartRoom returns the ID of the room the player starts in.
func (cat *Catalog) StartRoom() int {
	return cat.start
}

// Verb returns the verb with the given ID.
func (cat *Catalog) Verb(id int) (Verb, bool) {
	v, ok := cat.verbs[id]
	return v, ok
}

// Item returns the item with the given ID.
func (cat *Catalog) Item(id int) (Item, bool) {
	it, ok := cat.items[id]
	return it, ok
}

// Subject returns the subject with the given ID.
func (cat *Catalog) Subject(id int) (Subject, bool) {
	subj, ok := cat.subjects[id]
	return subj, ok
}

// Narrative returns the narrative with the given ID.
func (cat *Catalog) Narrative(id int) (Narrative, bool) {
	n, ok := cat.narratives[id]
	return n, ok
}

// Event returns the event with the given ID.
func (cat *Catalog) Event(id int) (Event, bool) {
	ev, ok := cat.events[id]
	return ev, ok
}

// Room returns the room with the given ID.
func (cat *Catalog) Room(id int) (Room, bool) {
	r, ok := cat.rooms[id]
	return r, ok
}

// Verbs returns all verbs in the order they were defined.
func (cat *Catalog) Verbs() []Verb {
	return inOrder(cat.verbOrder, cat.verbs)
}

// Items returns all items in the order they were defined.
func (cat *Catalog) Items() []Item {
	return inOrder(cat.itemOrder, cat.items)
}

// Subjects returns all subjects in the order they were defined.
func (cat *Catalog) Subjects() []Subject {
	return inOrder(cat.subjectOrder, cat.subjects)
}

// Events returns all events in the order they were defined.
func (cat *Catalog) Events() []Event {
	return inOrder(cat.eventOrder, cat.events)
}

// Rooms returns all rooms in the order they were defined.
func (cat *Catalog) Rooms() []Room {
	return inOrder(cat.roomOrder, cat.rooms)
}

func inOrder[V any](order []int, m map[int]V) []V {
	out := make([]V, len(order))
	for i := range order {
		out[i] = m[order[i]]
	}
	return out
}

func copyInts(sl []int) []int {
	if sl == nil {
		return nil
	}
	c := make([]int, len(sl))
	copy(c, sl)
	return c
}

func copyStrings(sl []string) []string {
	if sl == nil {
		return nil
	}
	c := make([]string, len(sl))
	copy(c, sl)
	return c
}

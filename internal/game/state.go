package game

import (
	"fmt"
	"sort"

	"github.com/dekarrin/nightrunner/internal/util"
	"github.com/dekarrin/nightrunner/internal/world"
	"github.com/dekarrin/rezi"
)

// State is everything about a game session that can change as it is played.
// The world it is played in is held separately in a Catalog and never
// changes.
type State struct {
	// Room is the ID of the room that the player is in.
	Room int

	// Inventory is the IDs of the items that the player is carrying, in the
	// order they were picked up.
	Inventory []int

	// Completed is the set of IDs of events that have happened.
	Completed map[int]bool

	// Narratives maps each room ID to the ID of its active narrative.
	Narratives map[int]int

	// Stashes maps each room ID to the IDs of the items in it.
	Stashes map[int][]int

	// Subjects maps each room ID to the IDs of the subjects in it.
	Subjects map[int][]int
}

// NewState returns the State of a new game in the given world.
func NewState(cat *world.Catalog) State {
	st := State{
		Room:       cat.StartRoom(),
		Completed:  map[int]bool{},
		Narratives: map[int]int{},
		Stashes:    map[int][]int{},
		Subjects:   map[int][]int{},
	}

	for _, r := range cat.Rooms() {
		st.Narratives[r.ID] = r.Narrative
		st.Stashes[r.ID] = copyIDs(r.Stash)
		st.Subjects[r.ID] = copyIDs(r.Subjects)
	}
	for _, ev := range cat.Events() {
		if ev.Completed {
			st.Completed[ev.ID] = true
		}
	}

	return st
}

// Copy returns a deep copy of st.
func (st State) Copy() State {
	cp := State{
		Room:       st.Room,
		Inventory:  copyIDs(st.Inventory),
		Completed:  make(map[int]bool, len(st.Completed)),
		Narratives: make(map[int]int, len(st.Narratives)),
		Stashes:    make(map[int][]int, len(st.Stashes)),
		Subjects:   make(map[int][]int, len(st.Subjects)),
	}
	for k, v := range st.Completed {
		cp.Completed[k] = v
	}
	for k, v := range st.Narratives {
		cp.Narratives[k] = v
	}
	for k, v := range st.Stashes {
		cp.Stashes[k] = copyIDs(v)
	}
	for k, v := range st.Subjects {
		cp.Subjects[k] = copyIDs(v)
	}
	return cp
}

// Carrying returns whether the player has the item.
func (st State) Carrying(itemID int) bool {
	return util.InSlice(itemID, st.Inventory)
}

// InStash returns whether the item is in the given room.
func (st State) InStash(roomID, itemID int) bool {
	return util.InSlice(itemID, st.Stashes[roomID])
}

// SubjectIn returns whether the subject is in the given room.
func (st State) SubjectIn(roomID, subjID int) bool {
	return util.InSlice(subjID, st.Subjects[roomID])
}

// CompletedEvents returns the IDs of all completed events in ascending order.
func (st State) CompletedEvents() []int {
	var ids []int
	for id, done := range st.Completed {
		if done {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Check makes sure that every ID in st refers to something in cat.
func (st State) Check(cat *world.Catalog) error {
	if _, ok := cat.Room(st.Room); !ok {
		return fmt.Errorf("current room %d does not exist", st.Room)
	}
	for _, id := range st.Inventory {
		if _, ok := cat.Item(id); !ok {
			return fmt.Errorf("inventory: item %d does not exist", id)
		}
	}
	for id := range st.Completed {
		if _, ok := cat.Event(id); !ok {
			return fmt.Errorf("completed: event %d does not exist", id)
		}
	}
	for roomID, narrID := range st.Narratives {
		if _, ok := cat.Room(roomID); !ok {
			return fmt.Errorf("narratives: room %d does not exist", roomID)
		}
		if _, ok := cat.Narrative(narrID); !ok {
			return fmt.Errorf("narratives: narrative %d does not exist", narrID)
		}
	}
	for roomID, items := range st.Stashes {
		for _, id := range items {
			if _, ok := cat.Item(id); !ok {
				return fmt.Errorf("stash of room %d: item %d does not exist", roomID, id)
			}
		}
	}
	for roomID, subjects := range st.Subjects {
		for _, id := range subjects {
			if _, ok := cat.Subject(id); !ok {
				return fmt.Errorf("subjects of room %d: subject %d does not exist", roomID, id)
			}
		}
	}
	return nil
}

// MarshalBinary converts st into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (st State) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(st.Room)...)
	data = append(data, encIntSlice(st.Inventory)...)
	data = append(data, encIntSlice(st.CompletedEvents())...)

	roomIDs := sortedKeys(st.Narratives)
	data = append(data, rezi.EncInt(len(roomIDs))...)
	for _, id := range roomIDs {
		data = append(data, rezi.EncInt(id)...)
		data = append(data, rezi.EncInt(st.Narratives[id])...)
	}

	data = append(data, encIntSliceMap(st.Stashes)...)
	data = append(data, encIntSliceMap(st.Subjects)...)

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into st.
// All data in st is replaced.
func (st *State) UnmarshalBinary(data []byte) error {
	var decoded State
	var n int
	var err error

	decoded.Room, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("room: %w", err)
	}
	data = data[n:]

	decoded.Inventory, n, err = decIntSlice(data)
	if err != nil {
		return fmt.Errorf("inventory: %w", err)
	}
	data = data[n:]

	completed, n, err := decIntSlice(data)
	if err != nil {
		return fmt.Errorf("completed: %w", err)
	}
	data = data[n:]
	decoded.Completed = make(map[int]bool, len(completed))
	for _, id := range completed {
		decoded.Completed[id] = true
	}

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("narratives: %w", err)
	}
	data = data[n:]
	if err := checkCount(count, len(data)); err != nil {
		return fmt.Errorf("narratives: %w", err)
	}
	decoded.Narratives = make(map[int]int, count)
	for i := 0; i < count; i++ {
		roomID, n, err := rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("narratives[%d]: room: %w", i, err)
		}
		data = data[n:]
		narrID, n, err := rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("narratives[%d]: narrative: %w", i, err)
		}
		data = data[n:]
		decoded.Narratives[roomID] = narrID
	}

	decoded.Stashes, n, err = decIntSliceMap(data)
	if err != nil {
		return fmt.Errorf("stashes: %w", err)
	}
	data = data[n:]

	decoded.Subjects, _, err = decIntSliceMap(data)
	if err != nil {
		return fmt.Errorf("subjects: %w", err)
	}

	*st = decoded
	return nil
}

// copyIDs copies sl. Empty slices are always nil.
func copyIDs(sl []int) []int {
	if len(sl) == 0 {
		return nil
	}
	return append([]int(nil), sl...)
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func encIntSlice(sl []int) []byte {
	data := rezi.EncInt(len(sl))
	for _, v := range sl {
		data = append(data, rezi.EncInt(v)...)
	}
	return data
}

func decIntSlice(data []byte) ([]int, int, error) {
	count, total, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, err
	}
	if err := checkCount(count, len(data)-total); err != nil {
		return nil, 0, err
	}
	var sl []int
	if count > 0 {
		sl = make([]int, count)
	}
	for i := 0; i < count; i++ {
		v, n, err := rezi.DecInt(data[total:])
		if err != nil {
			return nil, 0, fmt.Errorf("[%d]: %w", i, err)
		}
		total += n
		sl[i] = v
	}
	return sl, total, nil
}

func encIntSliceMap(m map[int][]int) []byte {
	keys := sortedKeys(m)
	data := rezi.EncInt(len(keys))
	for _, k := range keys {
		data = append(data, rezi.EncInt(k)...)
		data = append(data, encIntSlice(m[k])...)
	}
	return data
}

func decIntSliceMap(data []byte) (map[int][]int, int, error) {
	count, total, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, err
	}
	if err := checkCount(count, len(data)-total); err != nil {
		return nil, 0, err
	}
	m := make(map[int][]int, count)
	for i := 0; i < count; i++ {
		k, n, err := rezi.DecInt(data[total:])
		if err != nil {
			return nil, 0, fmt.Errorf("[%d]: key: %w", i, err)
		}
		total += n
		sl, n, err := decIntSlice(data[total:])
		if err != nil {
			return nil, 0, fmt.Errorf("[%d]: %w", i, err)
		}
		total += n
		m[k] = sl
	}
	return m, total, nil
}

// checkCount rejects a decoded element count that could not fit in the
// remaining bytes. Every element takes at least one byte.
func checkCount(count, remaining int) error {
	if count < 0 {
		return fmt.Errorf("negative length %d", count)
	}
	if count > remaining {
		return fmt.Errorf("length %d exceeds remaining %d bytes", count, remaining)
	}
	return nil
}

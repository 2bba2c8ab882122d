// Package game runs commands against the state of a game session. It selects
// and applies events, keeps track of what has changed in the world, and builds
// the text that is shown to the player.
package game

import (
	"fmt"
	"strings"

	"github.com/dekarrin/nightrunner/internal/command"
	"github.com/dekarrin/nightrunner/internal/nrerrors"
	"github.com/dekarrin/nightrunner/internal/util"
	"github.com/dekarrin/nightrunner/internal/world"
)

const helpText = `
To play this game you type your commands and hit enter to execute them. Typically a command has at most three parts: a verb, a subject, and an item. A verb indicates an action you, the player, wants to execute. Many commands can be executed with just a verb such as look, help, quit. For more complex commands you will also need verb and either a subject or an item. A command can also have a verb, item, and subject. A complex command can be: look at dog, talk to person, pick the box, give the box to the dog.

The game will ignore words like 'to', 'the', 'at', 'from', so using them is optional. A valid command can be: talk person, pick box, go south, climb tree, use axe tree.

Valid verbs: `

// Engine plays a single game session. It is not safe for concurrent use; each
// session needs its own Engine, though all of them may share a Parser.
type Engine struct {
	cat    *world.Catalog
	parser *command.Parser
	state  State
}

// New creates an Engine for a new game in the given world.
func New(cat *world.Catalog) *Engine {
	return &Engine{
		cat:    cat,
		parser: command.NewParser(cat),
		state:  NewState(cat),
	}
}

// Resume creates an Engine that continues a game from the given State. The
// world is the one p was built for. An error is returned if st refers to
// anything that is not in the world.
func Resume(p *command.Parser, st State) (*Engine, error) {
	cat := p.Catalog()
	if err := st.Check(cat); err != nil {
		return nil, fmt.Errorf("state does not match world: %w", err)
	}
	return &Engine{
		cat:    cat,
		parser: p,
		state:  st.Copy(),
	}, nil
}

// State returns a copy of the current state of the game.
func (e *Engine) State() State {
	return e.state.Copy()
}

// Parser returns the Parser that the Engine uses to read input.
func (e *Engine) Parser() *command.Parser {
	return e.parser
}

// Catalog returns the world the game is played in.
func (e *Engine) Catalog() *world.Catalog {
	return e.cat
}

// Intro returns the text shown before the game starts.
func (e *Engine) Intro() string {
	return e.cat.Intro()
}

// FirstRoomText returns the narrative of the room the player is in, for
// showing before any command has been entered.
func (e *Engine) FirstRoomText() (EventMessage, error) {
	narr, ok := e.cat.Narrative(e.state.Narratives[e.state.Room])
	if !ok {
		return EventMessage{}, fmt.Errorf("room %d has no active narrative", e.state.Room)
	}
	return buildEventMessage(e.cat, e.state, narr.Text, "", nil, nil)
}

// Parse reads a command from input and runs it. If the input cannot be
// understood or the command cannot be carried out, an error is returned and
// the state of the game is unchanged.
func (e *Engine) Parse(input string) (Outcome, error) {
	cmd, err := e.parser.Parse(input)
	if err != nil {
		return Outcome{}, err
	}
	return e.Execute(cmd)
}

// ParseJSON is the same as Parse but gives the result in its document form;
// see ResultJSON.
func (e *Engine) ParseJSON(input string) []byte {
	return ResultJSON(e.Parse(input))
}

// Execute runs a command that has already been parsed.
func (e *Engine) Execute(cmd command.Command) (Outcome, error) {
	switch cmd.Kind {
	case command.Quit:
		return Outcome{Kind: OutcomeQuit}, nil
	case command.Help:
		return Outcome{Kind: OutcomeHelp, Text: e.help()}, nil
	case command.Look:
		return Outcome{Kind: OutcomeLook, Text: lookText(e.cat, e.state)}, nil
	case command.LookAt:
		return e.lookAt(cmd)
	case command.Inventory:
		return Outcome{Kind: OutcomeInventory, Text: e.inventory()}, nil
	case command.Movement:
		return e.move(cmd.Direction)
	case command.VerbWithItem:
		verb, _ := e.cat.Verb(cmd.Verb)
		switch verb.Kind {
		case world.VerbTake:
			return e.take(cmd.Item)
		case world.VerbDrop:
			return e.drop(cmd.Item)
		}
		return e.runEvent(cmd)
	case command.VerbOnly, command.VerbWithSubject, command.VerbWithItemAndSubject:
		return e.runEvent(cmd)
	default:
		return Outcome{}, fmt.Errorf("unknown command kind: %s", cmd.Kind)
	}
}

func (e *Engine) help() string {
	var names []string
	for _, v := range e.cat.Verbs() {
		names = append(names, v.Names[0])
	}
	return helpText + strings.Join(names, ", ")
}

func (e *Engine) inventory() string {
	if len(e.state.Inventory) == 0 {
		return "You are not carrying anything."
	}

	lines := make([]string, 0, len(e.state.Inventory))
	for _, id := range e.state.Inventory {
		if it, ok := e.cat.Item(id); ok {
			lines = append(lines, util.WithArticle(it.Name))
		}
	}
	return "You are currently carrying: \n\n" + strings.Join(lines, "\n")
}

func (e *Engine) lookAt(cmd command.Command) (Outcome, error) {
	if cmd.Item != 0 {
		it, ok := e.cat.Item(cmd.Item)
		if !ok || !(e.state.Carrying(it.ID) || e.state.InStash(e.state.Room, it.ID)) {
			return Outcome{}, notPresent()
		}
		return Outcome{Kind: OutcomeLook, Text: it.Description}, nil
	}

	subj, ok := e.cat.Subject(cmd.Subject)
	if !ok || !e.state.SubjectIn(e.state.Room, subj.ID) {
		return Outcome{}, notPresent()
	}
	return Outcome{Kind: OutcomeLook, Text: subj.Description}, nil
}

func (e *Engine) move(dir world.Direction) (Outcome, error) {
	room, _ := e.cat.Room(e.state.Room)
	dest, ok := room.Exit(dir)
	if !ok {
		return Outcome{}, nrerrors.Newt(nrerrors.InvalidDirection, "You can't go that way.", fmt.Sprintf("room %d has no exit to the %s", room.ID, dir))
	}

	e.state.Room = dest
	look := lookText(e.cat, e.state)
	exits := exitsText(e.cat, dest)
	return Outcome{
		Kind: OutcomeEventSuccess,
		Event: EventMessage{
			Message: look + "\n\n\n" + exits,
			Parts: MessageParts{
				RoomText: look,
				Exits:    exits,
			},
			TemplatedWords: []string{},
		},
	}, nil
}

func (e *Engine) take(itemID int) (Outcome, error) {
	it, _ := e.cat.Item(itemID)
	if !e.state.InStash(e.state.Room, itemID) {
		if e.state.Carrying(itemID) {
			return Outcome{}, nrerrors.Newt(nrerrors.NotPresent, "You already have that.", fmt.Sprintf("item %d is already carried", itemID))
		}
		return Outcome{}, notPresent()
	}
	if !it.CanPick {
		return Outcome{}, nrerrors.Newt(nrerrors.CantPick, "You can't pick that up.", fmt.Sprintf("item %d cannot be picked up", itemID))
	}

	e.state.Stashes[e.state.Room] = removeID(e.state.Stashes[e.state.Room], itemID)
	e.state.Inventory = append(e.state.Inventory, itemID)
	return Outcome{Kind: OutcomeNewItem, Text: newItemText(it)}, nil
}

func (e *Engine) drop(itemID int) (Outcome, error) {
	it, _ := e.cat.Item(itemID)
	if !e.state.Carrying(itemID) {
		return Outcome{}, nrerrors.Newt(nrerrors.NotCarrying, "You're not carrying that.", fmt.Sprintf("item %d is not carried", itemID))
	}

	e.state.Inventory = removeID(e.state.Inventory, itemID)
	e.state.Stashes[e.state.Room] = append(e.state.Stashes[e.state.Room], itemID)
	return Outcome{Kind: OutcomeDropItem, Text: droppedItemText(it)}, nil
}

func newItemText(it world.Item) string {
	return "\nYou now have " + util.WithArticle(it.Name) + "\n"
}

func droppedItemText(it world.Item) string {
	return "\nYou no longer have " + util.WithArticle(it.Name) + "\n"
}

func notPresent() error {
	return nrerrors.Newt(nrerrors.NotPresent, "I can't see that here.", "referenced object is not here")
}

// removeID returns a copy of sl without id.
func removeID(sl []int, id int) []int {
	return copyIDs(util.SliceRemove(id, sl))
}

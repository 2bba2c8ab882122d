package command

import (
	"fmt"

	"github.com/dekarrin/nightrunner/internal/nrerrors"
	"github.com/dekarrin/nightrunner/internal/util"
	"github.com/dekarrin/nightrunner/internal/world"
)

// objects is every distinct non-verb thing named in input, in the order first
// named.
type objects struct {
	items    []int
	subjects []int
	dirs     []world.Direction
}

func gatherObjects(toks []Token) objects {
	var objs objects
	seenItems := map[int]bool{}
	seenSubjects := map[int]bool{}
	seenDirs := map[world.Direction]bool{}

	for _, t := range toks {
		switch t.Kind {
		case TokItem:
			if !seenItems[t.ID] {
				seenItems[t.ID] = true
				objs.items = append(objs.items, t.ID)
			}
		case TokSubject:
			if !seenSubjects[t.ID] {
				seenSubjects[t.ID] = true
				objs.subjects = append(objs.subjects, t.ID)
			}
		case TokDirection:
			if !seenDirs[t.Direction] {
				seenDirs[t.Direction] = true
				objs.dirs = append(objs.dirs, t.Direction)
			}
		}
	}

	return objs
}

// Classify turns resolved tokens into a Command. The first verb or movement
// word decides what kind of command it is; unrecognized words are ignored.
func (p *Parser) Classify(toks []Token) (Command, error) {
	objs := gatherObjects(toks)

	var lead *Token
	for i := range toks {
		if toks[i].Kind == TokVerb || toks[i].Kind == TokMovement {
			lead = &toks[i]
			break
		}
	}

	if lead == nil {
		if len(objs.dirs) > 0 {
			return p.classifyMovement(objs)
		}
		if len(objs.items)+len(objs.subjects) > 0 {
			return Command{}, nrerrors.New(nrerrors.MissingVerb, "What do you want to do with %s?", p.theNames(objs.items, objs.subjects, "and"))
		}
		return Command{}, nrerrors.Newt(nrerrors.UnrecognizedInput, "I don't understand that.", "no verb, movement, or object in input")
	}

	if lead.Kind == TokMovement {
		return p.classifyMovement(objs)
	}

	verb, ok := p.cat.Verb(lead.ID)
	if !ok {
		return Command{}, fmt.Errorf("token refers to verb %d which does not exist", lead.ID)
	}
	word := lead.Word

	switch verb.Kind {
	case world.VerbQuit:
		return Command{Kind: Quit, Verb: verb.ID}, nil
	case world.VerbHelp:
		return Command{Kind: Help, Verb: verb.ID}, nil
	case world.VerbInventory:
		return Command{Kind: Inventory, Verb: verb.ID}, nil
	case world.VerbLook:
		count := len(objs.items) + len(objs.subjects)
		if count == 0 {
			return Command{Kind: Look, Verb: verb.ID}, nil
		}
		if count > 1 {
			return Command{}, p.ambiguous(objs.items, objs.subjects)
		}
		cmd := Command{Kind: LookAt, Verb: verb.ID}
		if len(objs.items) == 1 {
			cmd.Item = objs.items[0]
		} else {
			cmd.Subject = objs.subjects[0]
		}
		return cmd, nil
	case world.VerbTake, world.VerbDrop:
		if len(objs.items) > 1 || (len(objs.items) == 1 && len(objs.subjects) > 0) {
			return Command{}, p.ambiguous(objs.items, objs.subjects)
		}
		if len(objs.items) == 0 {
			if len(objs.subjects) > 0 {
				return Command{}, nrerrors.New(nrerrors.MissingObject, "You can't %s that.", word)
			}
			return Command{}, nrerrors.New(nrerrors.MissingObject, "What do you want to %s?", word)
		}
		return Command{Kind: VerbWithItem, Verb: verb.ID, Item: objs.items[0]}, nil
	case world.VerbTalk:
		if len(objs.subjects) > 1 || (len(objs.subjects) == 1 && len(objs.items) > 0) {
			return Command{}, p.ambiguous(objs.items, objs.subjects)
		}
		if len(objs.subjects) == 0 {
			if len(objs.items) > 0 {
				return Command{}, nrerrors.New(nrerrors.MissingObject, "You can't %s to that.", word)
			}
			return Command{}, nrerrors.New(nrerrors.MissingObject, "Who do you want to %s to?", word)
		}
		return Command{Kind: VerbWithSubject, Verb: verb.ID, Subject: objs.subjects[0]}, nil
	default:
		if len(objs.items) > 1 {
			return Command{}, p.ambiguous(objs.items, nil)
		}
		if len(objs.subjects) > 1 {
			return Command{}, p.ambiguous(nil, objs.subjects)
		}

		cmd := Command{Kind: VerbOnly, Verb: verb.ID}
		if len(objs.items) == 1 {
			cmd.Item = objs.items[0]
			cmd.Kind = VerbWithItem
		}
		if len(objs.subjects) == 1 {
			cmd.Subject = objs.subjects[0]
			if cmd.Kind == VerbWithItem {
				cmd.Kind = VerbWithItemAndSubject
			} else {
				cmd.Kind = VerbWithSubject
			}
		}
		return cmd, nil
	}
}

func (p *Parser) classifyMovement(objs objects) (Command, error) {
	if len(objs.dirs) == 0 {
		return Command{}, nrerrors.New(nrerrors.MissingObject, "Where do you want to go?")
	}
	if len(objs.dirs) > 1 {
		names := make([]string, len(objs.dirs))
		for i := range objs.dirs {
			names[i] = objs.dirs[i].String()
		}
		return Command{}, nrerrors.New(nrerrors.AmbiguousInput, "Do you want to go %s?", util.MakeTextList(names, "or"))
	}
	return Command{Kind: Movement, Direction: objs.dirs[0]}, nil
}

func (p *Parser) ambiguous(items, subjects []int) error {
	return nrerrors.New(nrerrors.AmbiguousInput, "Did you mean %s?", p.theNames(items, subjects, "or"))
}

func (p *Parser) theNames(items, subjects []int, conj string) string {
	var names []string
	for _, id := range items {
		if it, ok := p.cat.Item(id); ok {
			names = append(names, "the "+it.Name)
		}
	}
	for _, id := range subjects {
		if subj, ok := p.cat.Subject(id); ok {
			names = append(names, "the "+subj.Name)
		}
	}
	return util.MakeTextList(names, conj)
}

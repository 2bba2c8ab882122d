// Package nightrunner contains a CLI-driven engine for reading player commands
// and running them against a game world until the player quits.
package nightrunner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/nightrunner/internal/command"
	"github.com/dekarrin/nightrunner/internal/game"
	"github.com/dekarrin/nightrunner/internal/input"
	"github.com/dekarrin/nightrunner/internal/nrerrors"
	"github.com/dekarrin/nightrunner/internal/world"
	"github.com/dekarrin/nightrunner/internal/worldfile"
	"github.com/dekarrin/rosed"
)

// DefaultWidth is the console width output is wrapped to when none is given.
const DefaultWidth = 80

// Engine contains the things needed to run a game from an interactive shell
// attached to an input stream and an output stream.
type Engine struct {
	game        *game.Engine
	in          command.Reader
	out         *bufio.Writer
	width       int
	forceDirect bool
	running     bool
}

// New creates a new engine that runs the world at worldPath on the given input
// and output streams. It will immediately open a buffered reader on the input
// stream and a buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. Readline is used for input only when both
// streams are the process's own and forceDirectInput is not set. A width less
// than 1 means DefaultWidth.
func New(inputStream io.Reader, outputStream io.Writer, worldPath string, forceDirectInput bool, width int) (*Engine, error) {
	cat, err := worldfile.Load(worldPath)
	if err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}

	return NewWithCatalog(inputStream, outputStream, cat, forceDirectInput, width)
}

// NewWithCatalog is the same as New but runs an already loaded world.
func NewWithCatalog(inputStream io.Reader, outputStream io.Writer, cat *world.Catalog, forceDirectInput bool, width int) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}
	if width < 1 {
		width = DefaultWidth
	}

	eng := &Engine{
		game:        game.New(cat),
		out:         bufio.NewWriter(outputStream),
		width:       width,
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader(eng.game.Parser().Words())
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running game engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// VerbTable returns a text table of every verb the world accepts along with
// its synonyms.
func (eng *Engine) VerbTable() string {
	data := [][]string{{"Verb", "Synonyms", "Function"}}
	for _, v := range eng.game.Catalog().Verbs() {
		data = append(data, []string{v.Names[0], strings.Join(v.Names[1:], ", "), v.Kind.String()})
	}

	tableOpts := rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, eng.width, tableOpts).
		String()
}

// RunUntilQuit begins reading commands from the streams and applying them to
// the game until a quit command is received or input runs out.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "Welcome to NightRunner\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "======================\n"
	if err := eng.write(introMsg); err != nil {
		return err
	}

	if intro := eng.game.Intro(); intro != "" {
		if err := eng.writeWrapped(intro + "\n"); err != nil {
			return err
		}
	}

	first, err := eng.game.FirstRoomText()
	if err != nil {
		return fmt.Errorf("starting game: %w", err)
	}
	if err := eng.writeWrapped(first.Message); err != nil {
		return err
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out, eng.game.Parser())
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		out, err := eng.game.Execute(cmd)
		if err != nil {
			if err := eng.writeWrapped(nrerrors.GameMessage(err)); err != nil {
				return err
			}
			continue
		}

		if out.Kind == game.OutcomeQuit {
			eng.running = false
			break
		}

		text := out.Text
		if out.Kind == game.OutcomeEventSuccess {
			text = out.Event.Message
		}
		if err := eng.writeWrapped(text); err != nil {
			return err
		}
	}

	return eng.write("Goodbye\n")
}

// writeWrapped writes s preceded by a blank line, with each of its lines
// wrapped to the console width on its own.
func (eng *Engine) writeWrapped(s string) error {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		if len(lines[i]) > eng.width {
			lines[i] = rosed.Edit(lines[i]).Wrap(eng.width).String()
		}
	}
	return eng.write("\n" + strings.Join(lines, "\n") + "\n")
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

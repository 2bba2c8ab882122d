package command

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/dekarrin/nightrunner/internal/nrerrors"
)

// Reader is a type that can be used for getting command input.
type Reader interface {
	// ReadCommand reads a single user command. It will block until one is
	// ready. If there is an error or output is at end (EOF), the returned
	// string will be empty, otherwise it will always be non-empty.
	//
	// When error is io.EOF, string will always be empty. If EOF was encountered
	// on a call but some input was received, the input will be returned and
	// error will be nil, and the next call to ReadCommand will return "",
	// io.EOF.
	ReadCommand() (string, error)

	// Close performs any operations required to clean the resources created by
	// the Reader. It should be called at least once when the Reader is no
	// longer needed.
	Close() error
}

// Get obtains a single command from input by reading from the provided Reader.
// It reads a line of input and attempts to parse it with p, returning that
// command if it is successful. If it is not, the game message of the error is
// printed to the ostream and the input is read until a valid command is
// encountered. Blank lines are skipped without a message.
//
// Note that this function does not check if the command can be carried out,
// only that a Command can be parsed from the user input.
func Get(cmdStream Reader, ostream *bufio.Writer, p *Parser) (Command, error) {
	for {
		input, err := cmdStream.ReadCommand()
		if err != nil {
			return Command{}, fmt.Errorf("could not get input: %w", err)
		}

		cmd, err := p.Parse(input)
		if err == nil {
			return cmd, nil
		}
		if errors.Is(err, nrerrors.EmptyInput) {
			continue
		}

		errMsg := fmt.Sprintf("%s\nTry HELP for valid commands\n", nrerrors.GameMessage(err))
		if _, err := ostream.WriteString(errMsg); err != nil {
			return Command{}, fmt.Errorf("could not write output: %w", err)
		}
		if err := ostream.Flush(); err != nil {
			return Command{}, fmt.Errorf("could not flush output: %w", err)
		}
	}
}

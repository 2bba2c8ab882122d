/*
Nri starts an interactive NightRunner session.

It reads in a world and starts the game in the world's starting room. The
interpreter will then print what is happening in the game to stdout and read
player commands from stdin until the game is over, the player enters a quit
verb, or input runs out.

Usage:

	nri [flags]

The flags are:

	-v, --version
		Give the current version of NightRunner and then exit.

	-w, --world PATH
		Use the world at PATH. PATH can be a .json file, a .toml or .nrw file,
		or a directory of YAML files. If not given, will default to the value
		of environment variable NIGHTRUNNER_WORLD, and if that is not given,
		will default to "world.json" in the current working directory.

	-d, --direct
		Force reading directly from the console as opposed to using GNU readline
		based routines for reading command input even if launched in a tty with
		stdin and stdout.

	-W, --width N
		Wrap output to N columns. Defaults to 80.

	--verbs
		Print a table of the verbs the world accepts and then exit.

Once a session has started, type "help" for a list of the world's verbs.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/nightrunner"
	"github.com/dekarrin/nightrunner/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitGameError indicates an unsuccessful program execution due to a
	// problem during the game.
	ExitGameError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

// EnvWorld is the environment variable read for the world path when no flag
// gives one.
const EnvWorld = "NIGHTRUNNER_WORLD"

var (
	returnCode  int = ExitSuccess
	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of NightRunner and then exit.")
	flagWorld       = pflag.StringP("world", "w", "world.json", "The world file or YAML world directory to play.")
	flagDirect      = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagWidth       = pflag.IntP("width", "W", nightrunner.DefaultWidth, "Wrap output to this many columns.")
	flagVerbs       = pflag.Bool("verbs", false, "Print the verbs the world accepts and then exit.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	worldPath := *flagWorld
	if !pflag.CommandLine.Changed("world") {
		if envWorld := os.Getenv(EnvWorld); envWorld != "" {
			worldPath = envWorld
		}
	}

	gameEng, initErr := nightrunner.New(os.Stdin, os.Stdout, worldPath, *flagDirect, *flagWidth)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer gameEng.Close()

	if *flagVerbs {
		fmt.Println(gameEng.VerbTable())
		return
	}

	err := gameEng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGameError
		return
	}
}

/*
Nrserver starts a NightRunner server and begins listening for new connections.

Usage:

	nrserver [flags]
	nrserver [flags] -l [[ADDRESS]:PORT]

Once started, the NightRunner server will listen for HTTP requests and respond
to them using REST protocol. By default, it will listen on localhost:8080. This
can be changed with the --listen/-l flag (or config via environment var). The
flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the port preceeded by a colon, such as ":6001".

If a token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all session tokens are rendered invalid
as soon as the server shuts down.

The flags are:

	-v, --version
		Give the current version of the NightRunner server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		NIGHTRUNNER_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing session tokens. If there are less
		than 32 bytes in the secret, it will be repeated until it is. The
		maximum size is 64 bytes. If not given, will default to the value of
		environment variable NIGHTRUNNER_TOKEN_SECRET. If no secret is
		specified, a random one is generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable NIGHTRUNNER_DATABASE. If neither is
		given, an in-memory database is used.

	--author-key KEY
		Require KEY as the Bearer token to upload or delete worlds. If not
		given, will default to the value of environment variable
		NIGHTRUNNER_AUTHOR_KEY. If neither is given, worlds cannot be uploaded
		and only the ones given with --world are available.

	--world PATH
		Load the world at PATH when starting. May be given more than once. If
		not given, will default to the value of environment variable
		NIGHTRUNNER_WORLDS, a colon-separated list of paths.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/nightrunner/internal/version"
	"github.com/dekarrin/nightrunner/server"
	"github.com/spf13/pflag"
)

var (
	flagVersion   = pflag.BoolP("version", "v", false, "Give the current version of NightRunner server and then exit.")
	flagListen    = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret    = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB        = pflag.String("db", "", "Use the given DB connection string.")
	flagAuthorKey = pflag.String("author-key", "", "Require the given key to upload or delete worlds.")
	flagWorlds    = pflag.StringArray("world", nil, "Load the world at the given path on startup.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (NightRunner v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	envCfg, err := server.ParseEnvConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}

	// flags override the environment
	if pflag.Lookup("listen").Changed {
		envCfg.ListenAddress = *flagListen
	}
	if pflag.Lookup("secret").Changed {
		envCfg.TokenSecret = *flagSecret
	}
	if pflag.Lookup("db").Changed {
		envCfg.Database = *flagDB
	}
	if pflag.Lookup("author-key").Changed {
		envCfg.AuthorKey = *flagAuthorKey
	}
	if pflag.Lookup("world").Changed {
		envCfg.Worlds = *flagWorlds
	}

	if err := checkListenAddress(envCfg.ListenAddress); err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	cfg, err := envCfg.Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	if cfg.TokenSecret == nil {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	} else if len(cfg.TokenSecret) > server.MaxSecretSize {
		// keys would be chopped at 64, so rather than the user thinking they
		// have more security by giving a longer key, refuse to start.
		fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(cfg.TokenSecret), server.MaxSecretSize)
		os.Exit(1)
	}

	if cfg.AuthorKey == "" {
		log.Printf("WARN  No author key set; worlds cannot be uploaded")
	}

	nrs, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Server initialized")

	log.Printf("INFO  Starting NightRunner server %s...", version.ServerCurrent)
	err = nrs.ServeForever(envCfg.ListenAddress)
	nrs.Close()
	log.Fatalf("FATAL %v", err)
}

func checkListenAddress(addr string) error {
	if addr == "" {
		return nil
	}

	_, portStr, ok := strings.Cut(addr, ":")
	if !ok {
		return fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}
	if _, err := strconv.Atoi(portStr); err != nil {
		return fmt.Errorf("%q is not a valid port number", portStr)
	}
	return nil
}

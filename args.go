package main

import (
	"flag"
	"fmt"
	"os"
)

// Args are command line arguments.
type Args struct {
	Port       string
	Password   string
	ConfigFile string
}

// getArgs reads the command line: ircserv [-conf FILE] <port> <password>.
// Returns nil after printing a diagnostic if the arguments are unusable.
func getArgs() *Args {
	configFile := flag.String("conf", "", "Optional tuning file (key = value).")

	flag.Parse()

	if flag.NArg() != 2 {
		printUsage(fmt.Errorf("you must provide a port and a password"))
		return nil
	}

	port := flag.Arg(0)
	password := flag.Arg(1)

	if !isValidPort(port) {
		printUsage(fmt.Errorf(
			"invalid port number, must be between 1024 and 65535"))
		return nil
	}

	if !isValidPassword(password) {
		printUsage(fmt.Errorf(
			"invalid password, no spaces or non-printable characters allowed"))
		return nil
	}

	return &Args{
		Port:       port,
		Password:   password,
		ConfigFile: *configFile,
	}
}

func printUsage(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s\n", err)
	_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [-conf FILE] <port> <password>\n",
		os.Args[0])
	flag.PrintDefaults()
}

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	bcryptadapter "github.com/target/q-inventory/internal/adapters/bcrypt"
)

type hashPasswordOptions struct {
	Cost int
}

func parseHashPasswordFlags(args []string, defaultCost int) (hashPasswordOptions, error) {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := hashPasswordOptions{}
	fs.IntVar(&opts.Cost, "cost", defaultCost, "bcrypt work factor")

	if err := fs.Parse(args); err != nil {
		return hashPasswordOptions{}, err
	}
	return opts, nil
}

func runHashPassword(cmdCtx *commandContext, args []string) error {
	opts, err := parseHashPasswordFlags(args, cmdCtx.Config.Auth.BcryptCost)
	if err != nil {
		return err
	}

	password, err := readPassword(cmdCtx.In)
	if err != nil {
		return err
	}

	hash, err := bcryptadapter.NewHasher(opts.Cost).Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return writeln(cmdCtx.Out, hash)
}

// readPassword takes the first line of in without its line ending.
func readPassword(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required on stdin")
	}
	return password, nil
}

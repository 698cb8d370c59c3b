// Command hash-password prints a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"intake-backend/internal/auth"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "❌ hash-password: %v\n", err)
		os.Exit(1)
	}
}

// run hashes --password, or the first line of stdin when the flag is absent.
func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("hash-password", pflag.ContinueOnError)
	password := fs.StringP("password", "p", "", "password to hash (read from stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *password == "" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}
	if *password == "" {
		return errors.New("password must not be empty")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = fmt.Fprintln(stdout, hash)
	return err
}

// Command mytodoctl is a command-line client for a mytodo server.
//
// Usage:
//
//	mytodoctl [-url URL] [-session FILE] <command> [args]
//
// The session token is kept in FILE between invocations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/mytodo/internal/client"
)

const usage = `usage: mytodoctl [-url URL] [-session FILE] <command> [args]

commands:
  register <username> <email>     create an account (password read from stdin)
  login <username>                sign in (password read from stdin)
  logout                          end the session
  me                              show the signed-in user
  list [-page N] [-limit N]       list todos
  get <id>                        show one todo
  add [-d DESC] <title>           create a todo
  edit [-title T] [-d DESC] <id>  change a todo; -d "" clears the description
  done <id> | undone <id>         toggle completion
  rm <id>                         delete a todo
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mytodoctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	serverURL := fs.String("url", envOr("MYTODO_URL", "http://127.0.0.1:8080"), "server base URL")
	sessionFile := fs.String("session", envOr("MYTODO_SESSION_FILE", defaultSessionFile()), "file that stores the session token")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	c, err := client.New(*serverURL)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	store := sessionStore{path: *sessionFile}
	if token, err := store.load(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	} else if token != "" {
		c.SetSessionToken(token)
	}

	cli := &cli{client: c, stdin: stdin, stdout: stdout}
	err = cli.dispatch(ctx, fs.Arg(0), fs.Args()[1:])

	// Persist whatever the server left in the jar, including a cleared session.
	if saveErr := store.save(c.SessionToken()); saveErr != nil && err == nil {
		err = saveErr
	}

	var usageErr usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usageErr):
		fmt.Fprintln(stderr, "error:", err)
		fmt.Fprint(stderr, usage)
		return 2
	case client.IsUnauthorized(err) && fs.Arg(0) != "login":
		fmt.Fprintln(stderr, "error: not signed in; run mytodoctl login <username>")
		return 1
	default:
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".mytodo-session"
	}
	return filepath.Join(dir, "mytodo", "session")
}

// sessionStore keeps the session token in a private file.
type sessionStore struct {
	path string
}

func (s sessionStore) load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s sessionStore) save(token string) error {
	if token == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing session file: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

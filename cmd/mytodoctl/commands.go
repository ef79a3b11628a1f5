package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ericfisherdev/mytodo/internal/client"
)

type cli struct {
	client *client.Client
	stdin  io.Reader
	stdout io.Writer
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return c.register(ctx, args)
	case "login":
		return c.login(ctx, args)
	case "logout":
		return c.client.Logout(ctx)
	case "me":
		return c.me(ctx)
	case "list", "ls":
		return c.list(ctx, args)
	case "get":
		return c.get(ctx, args)
	case "add":
		return c.add(ctx, args)
	case "edit":
		return c.edit(ctx, args)
	case "done":
		return c.setDone(ctx, args, true)
	case "undone":
		return c.setDone(ctx, args, false)
	case "rm", "delete":
		return c.remove(ctx, args)
	default:
		return usageError(fmt.Sprintf("unknown command %q", cmd))
	}
}

func (c *cli) readPassword() (string, error) {
	line, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("register takes <username> <email>")
	}
	password, err := c.readPassword()
	if err != nil {
		return err
	}

	user, err := c.client.Register(ctx, args[0], args[1], password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "registered and signed in as %s (id %d)\n", user.Username, user.ID)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("login takes <username>")
	}
	password, err := c.readPassword()
	if err != nil {
		return err
	}

	user, err := c.client.Login(ctx, args[0], password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "signed in as %s\n", user.Username)
	return nil
}

func (c *cli) me(ctx context.Context) error {
	user, err := c.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "%s (id %d)\n", user.Username, user.ID)
	return nil
}

func (c *cli) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	page := fs.Int("page", 0, "page number, from 0")
	limit := fs.Int("limit", 10, "todos per page")
	if err := fs.Parse(args); err != nil {
		return usageError("list: " + err.Error())
	}

	todos, err := c.client.ListTodos(ctx, *page, *limit)
	if err != nil {
		return err
	}
	if len(todos) == 0 {
		fmt.Fprintln(c.stdout, "no todos")
		return nil
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTITLE")
	for _, t := range todos {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", t.ID, doneMark(t.Done), t.Title)
	}
	return tw.Flush()
}

func (c *cli) get(ctx context.Context, args []string) error {
	id, err := parseIDArg("get", args)
	if err != nil {
		return err
	}

	todo, err := c.client.GetTodo(ctx, id)
	if err != nil {
		return err
	}
	printTodo(c.stdout, todo)
	return nil
}

func (c *cli) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	desc := fs.String("d", "", "description (Markdown)")
	if err := fs.Parse(args); err != nil {
		return usageError("add: " + err.Error())
	}
	if fs.NArg() == 0 {
		return usageError("add takes <title>")
	}

	in := client.NewTodo{Title: strings.Join(fs.Args(), " ")}
	if *desc != "" {
		in.Description = desc
	}

	todo, err := c.client.CreateTodo(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "created #%d\n", todo.ID)
	return nil
}

func (c *cli) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "new title")
	desc := fs.String("d", "", "new description")
	if err := fs.Parse(args); err != nil {
		return usageError("edit: " + err.Error())
	}
	id, err := parseIDArg("edit", fs.Args())
	if err != nil {
		return err
	}

	var in client.TodoUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			in.Title = title
		case "d":
			in.Description = desc
		}
	})

	todo, err := c.client.UpdateTodo(ctx, id, in)
	if err != nil {
		return err
	}
	printTodo(c.stdout, todo)
	return nil
}

func (c *cli) setDone(ctx context.Context, args []string, done bool) error {
	id, err := parseIDArg("done", args)
	if err != nil {
		return err
	}

	todo, err := c.client.UpdateTodo(ctx, id, client.TodoUpdate{Done: &done})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "%s #%d %s\n", doneMark(todo.Done), todo.ID, todo.Title)
	return nil
}

func (c *cli) remove(ctx context.Context, args []string) error {
	id, err := parseIDArg("rm", args)
	if err != nil {
		return err
	}

	if err := c.client.DeleteTodo(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "deleted #%d\n", id)
	return nil
}

func parseIDArg(cmd string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, usageError(cmd + " takes <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, usageError(fmt.Sprintf("%s: invalid id %q", cmd, args[0]))
	}
	return id, nil
}

func doneMark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func printTodo(w io.Writer, t client.Todo) {
	fmt.Fprintf(w, "#%d %s %s\n", t.ID, doneMark(t.Done), t.Title)
	if t.Description != nil {
		fmt.Fprintf(w, "\n%s\n", *t.Description)
	}
	fmt.Fprintf(w, "\ncreated %s, updated %s\n", t.CreatedAt.Format("2006-01-02 15:04"), t.UpdatedAt.Format("2006-01-02 15:04"))
}

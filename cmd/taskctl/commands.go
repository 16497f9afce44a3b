package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/taskdesk/taskdesk/internal/client/remote"
	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/service"
)

type cmdEnv struct {
	client  *remote.Client
	session *service.SessionManager
	stdin   io.Reader
	out     io.Writer
}

type command struct {
	name string
	help string
	// gate runs after Bootstrap and before run.
	gate func(m *service.SessionManager) error
	run  func(ctx context.Context, env *cmdEnv, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"login", "sign in with --email (password read from stdin)", anyone, login},
		{"logout", "end the current session", anyone, logout},
		{"whoami", "show the signed-in identity and route", anyone, whoami},
		{"tasks", "list tasks (--status --priority --project --date -q)", signedIn, listTasks},
		{"mine", "list my assignments (--date --status -q)", signedIn, myAssignments},
		{"complete", "complete an assignment: complete <id> --hours --note", signedIn, complete},
		{"inbox", "requests addressed to me (--status -q)", signedIn, requestBox("inbox")},
		{"outbox", "requests I sent (--status -q)", signedIn, requestBox("outbox")},
		{"request", "send a request: request <user-id> --title --body", signedIn, sendRequest},
		{"respond", "set a request's status: respond <id> <status> [--note]", signedIn, respond},
		{"directory", "list other active users", signedIn, directory},
		{"users", "list all users (ADMIN)", adminOnly, users},
		{"deactivate", "deactivate a user: deactivate <id> (ADMIN)", adminOnly, setActive(false)},
		{"activate", "reactivate a user: activate <id> (ADMIN)", adminOnly, setActive(true)},
		{"dashboard", "show dashboard counters (ADMIN)", adminOnly, dashboard},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func anyone(*service.SessionManager) error { return nil }

func signedIn(m *service.SessionManager) error {
	if m.State() != domain.StateAuthenticated {
		return errors.New("not signed in; run `taskctl login --email <address>`")
	}
	return nil
}

func adminOnly(m *service.SessionManager) error {
	if err := m.RequireRoute(domain.RouteAdmin); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return errors.New("this command needs an ADMIN account")
		}
		return signedIn(m)
	}
	return nil
}

func parse(name string, args []string, define func(fs *pflag.FlagSet)) (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if define != nil {
		define(fs)
	}
	return fs, fs.Parse(args)
}

func login(ctx context.Context, env *cmdEnv, args []string) error {
	var email, password string
	if _, err := parse("login", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&email, "email", "", "account email")
		fs.StringVar(&password, "password", "", "password (read from stdin when empty)")
	}); err != nil {
		return err
	}
	if email == "" {
		return errors.New("--email is required")
	}
	if password == "" {
		fmt.Fprint(env.out, "password: ")
		line, err := bufio.NewReader(env.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		password = strings.TrimRight(line, "\r\n")
		fmt.Fprintln(env.out)
	}

	if err := env.session.SignIn(ctx, email, password); err != nil {
		return err
	}
	return whoami(ctx, env, nil)
}

func logout(ctx context.Context, env *cmdEnv, _ []string) error {
	if err := env.session.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(env.out, "signed out")
	return nil
}

func whoami(_ context.Context, env *cmdEnv, _ []string) error {
	snap := env.session.Snapshot()
	if snap.Identity == nil {
		fmt.Fprintln(env.out, "not signed in")
		return nil
	}
	fmt.Fprintf(env.out, "%s <%s>\nrole:  %s\nroute: %s\n", snap.Identity.FullName, snap.Identity.Email, snap.Identity.Role, snap.Route)
	return nil
}

func listTasks(ctx context.Context, env *cmdEnv, args []string) error {
	q := url.Values{}
	fs, err := parse("tasks", args, func(fs *pflag.FlagSet) {
		fs.String("status", "", "pending, in_progress or completed")
		fs.String("priority", "", "low, medium or high")
		fs.String("project", "", "project id")
		fs.String("date", "", "all, today, last_5_days or upcoming")
		fs.StringP("query", "q", "", "search title and description")
	})
	if err != nil {
		return err
	}
	setQuery(fs, q, map[string]string{"status": "status", "priority": "priority", "project": "project_id", "date": "date", "query": "q"})

	tasks, err := env.client.Tasks(ctx, env.session.Session(), q)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRIORITY\tSTATUS\tDUE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Priority, t.Status, day(t.DueDate))
	}
	return tw.Flush()
}

func myAssignments(ctx context.Context, env *cmdEnv, args []string) error {
	q := url.Values{}
	fs, err := parse("mine", args, func(fs *pflag.FlagSet) {
		fs.String("date", "", "all, today, last_5_days or upcoming")
		fs.String("status", "", "task status")
		fs.StringP("query", "q", "", "search task title and description")
	})
	if err != nil {
		return err
	}
	setQuery(fs, q, map[string]string{"date": "date", "status": "status", "query": "q"})

	views, err := env.client.MyAssignments(ctx, env.session.Session(), q)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTASK\tPROJECT\tSTATUS\tDUE")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.ID, v.TaskTitle, v.ProjectName, v.TaskStatus, v.DueDate.Format("2006-01-02"))
	}
	return tw.Flush()
}

func complete(ctx context.Context, env *cmdEnv, args []string) error {
	var hours float64
	var note string
	fs, err := parse("complete", args, func(fs *pflag.FlagSet) {
		fs.Float64Var(&hours, "hours", 0, "hours spent")
		fs.StringVar(&note, "note", "", "narration")
	})
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: complete <assignment-id> --hours <n> [--note <text>]")
	}
	if err := env.client.CompleteAssignment(ctx, env.session.Session(), fs.Arg(0), hours, note); err != nil {
		return err
	}
	fmt.Fprintln(env.out, "assignment completed")
	return nil
}

func requestBox(box string) func(context.Context, *cmdEnv, []string) error {
	return func(ctx context.Context, env *cmdEnv, args []string) error {
		q := url.Values{}
		fs, err := parse(box, args, func(fs *pflag.FlagSet) {
			fs.String("status", "", "request status")
			fs.StringP("query", "q", "", "search title and description")
		})
		if err != nil {
			return err
		}
		setQuery(fs, q, map[string]string{"status": "status", "query": "q"})

		views, err := env.client.Requests(ctx, env.session.Session(), box, q)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tFROM\tTO\tSTATUS")
		for _, v := range views {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.ID, v.Title, v.RequesterName, v.AssigneeName, v.Status)
		}
		return tw.Flush()
	}
}

func sendRequest(ctx context.Context, env *cmdEnv, args []string) error {
	var title, body string
	fs, err := parse("request", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&title, "title", "", "request title")
		fs.StringVar(&body, "body", "", "request description")
	})
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: request <user-id> --title <text> --body <text>")
	}
	r, err := env.client.CreateRequest(ctx, env.session.Session(), fs.Arg(0), title, body)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "request %s sent\n", r.ID)
	return nil
}

func respond(ctx context.Context, env *cmdEnv, args []string) error {
	var note string
	fs, err := parse("respond", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&note, "note", "", "narration")
	})
	if err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: respond <request-id> <pending|in_progress|completed> [--note <text>]")
	}
	r, err := env.client.UpdateRequestStatus(ctx, env.session.Session(), fs.Arg(0), fs.Arg(1), note)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "request %s is now %s\n", r.ID, r.Status)
	return nil
}

func directory(ctx context.Context, env *cmdEnv, _ []string) error {
	entries, err := env.client.Directory(ctx, env.session.Session())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.ID, e.FullName)
	}
	return tw.Flush()
}

func users(ctx context.Context, env *cmdEnv, _ []string) error {
	list, err := env.client.Users(ctx, env.session.Session())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.FullName, u.Email, u.Role, u.Active)
	}
	return tw.Flush()
}

func setActive(active bool) func(context.Context, *cmdEnv, []string) error {
	return func(ctx context.Context, env *cmdEnv, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: (de)activate <user-id>")
		}
		if err := env.client.SetUserActive(ctx, env.session.Session(), args[0], active); err != nil {
			return err
		}
		fmt.Fprintf(env.out, "user %s active=%t\n", args[0], active)
		return nil
	}
}

func dashboard(ctx context.Context, env *cmdEnv, _ []string) error {
	st, err := env.client.Dashboard(ctx, env.session.Session())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "projects\t%d\nclients\t%d\ntasks\t%d\nactive users\t%d\nassignments\t%d\nrequests\t%d\n",
		st.Projects, st.Clients, st.Tasks, st.Users, st.Assignments, st.Requests)
	return tw.Flush()
}

// setQuery copies every changed flag into q under its query name.
func setQuery(fs *pflag.FlagSet, q url.Values, names map[string]string) {
	for flag, param := range names {
		if f := fs.Lookup(flag); f != nil && f.Changed {
			q.Set(param, f.Value.String())
		}
	}
}

func day(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

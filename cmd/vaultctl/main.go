// vaultctl drives the IJS VAULT admin API from the terminal: the same
// client stack the dashboard uses, wired to flag-based subcommands.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ijsvault/vaultadmin/internal/apiclient"
	"github.com/ijsvault/vaultadmin/internal/config"
	"github.com/ijsvault/vaultadmin/internal/export"
	"github.com/ijsvault/vaultadmin/internal/query"
	"github.com/ijsvault/vaultadmin/internal/session"
	"github.com/ijsvault/vaultadmin/internal/vault"
	"github.com/ijsvault/vaultadmin/internal/workflow"
)

const usage = `usage: vaultctl <command> [flags]

commands:
  login       -email -password        authenticate and store the session
  logout                              drop the stored session
  users       -search -status -role -page -page-size
  suspend     -id [-reason]           suspend one user
  activate    -id                     reactivate one user
  delete      -id                     delete one user (asks for confirmation)
  export      -format csv|excel       export the filtered user list
  sessions    -search -device -page -page-size
  logout-all  -id                     terminate all sessions of one user
  notify      -title -message [-type] [-users id,id,...] [-push]
  dashboard                           show dashboard stats
`

// terminalConfirmer blocks on stdin for a y/N answer.
type terminalConfirmer struct{}

func (terminalConfirmer) Confirm(action string, count int) (bool, error) {
	fmt.Printf("%d item(s) will be %s. Continue? [y/N] ", count, action)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

type logNotifier struct{}

func (logNotifier) Success(message string) { log.Printf("OK: %s", message) }
func (logNotifier) Error(message string)   { log.Printf("ERROR: %s", message) }

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	sess, err := session.Load(cfg.TokenPath)
	if err != nil {
		log.Fatalf("load session: %v", err)
	}

	client := apiclient.New(cfg, sess)
	svc := vault.New(client, sess)
	flows := workflow.New(svc, query.NewCache(), terminalConfirmer{}, logNotifier{}, export.DirSink{Dir: cfg.ExportDir})

	ctx := context.Background()
	if err := run(ctx, os.Args[1], os.Args[2:], svc, flows); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, command string, args []string, svc *vault.Service, flows *workflow.Workflows) error {
	switch command {
	case "login":
		return runLogin(ctx, args, svc)
	case "logout":
		return svc.Logout(ctx)
	case "users":
		return runUsers(ctx, args, flows)
	case "suspend":
		return runUserAction(ctx, args, flows, "suspend")
	case "activate":
		return runUserAction(ctx, args, flows, "activate")
	case "delete":
		return runUserAction(ctx, args, flows, "delete")
	case "logout-all":
		return runUserAction(ctx, args, flows, "logout-all")
	case "export":
		return runExport(ctx, args, flows)
	case "sessions":
		return runSessions(ctx, args, flows)
	case "notify":
		return runNotify(ctx, args, flows)
	case "dashboard":
		return runDashboard(ctx, flows)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runLogin(ctx context.Context, args []string, svc *vault.Service) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}
	info, err := svc.SignIn(ctx, vault.SignInRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	log.Printf("signed in as %s <%s>", info.FullName, info.Email)
	return nil
}

func runUsers(ctx context.Context, args []string, flows *workflow.Workflows) error {
	fs := flag.NewFlagSet("users", flag.ExitOnError)
	search := fs.String("search", "", "search term")
	status := fs.String("status", "", "active|inactive|suspended")
	role := fs.String("role", "", "user|group_admin")
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", 10, "items per page")
	fs.Parse(args)

	flows.Users.SetSearch(*search)
	extra := vault.UserFilterExtra{}
	if parsed, ok := vault.ParseUserStatus(*status); ok {
		extra.Status = parsed
	}
	if parsed, ok := vault.ParseUserRole(*role); ok {
		extra.Role = parsed
	}
	flows.Users.SetExtra(extra)
	flows.Users.SetPageSize(*pageSize)
	flows.Users.SetPage(*page)

	result, err := flows.UsersPage(ctx)
	if err != nil {
		return err
	}
	for _, u := range result.Items {
		log.Printf("%-36s  %-24s  %-10s  %s", u.ID, u.Email, u.Status, u.DisplayName())
	}
	log.Printf("page %d/%d, %d user(s) total", result.Page, result.TotalPages, result.Total)
	return nil
}

func runUserAction(ctx context.Context, args []string, flows *workflow.Workflows, action string) error {
	fs := flag.NewFlagSet(action, flag.ExitOnError)
	id := fs.String("id", "", "user id")
	reason := fs.String("reason", "", "suspension reason")
	fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("%s requires -id", action)
	}
	switch action {
	case "suspend":
		return flows.SuspendUser(ctx, *id, *reason)
	case "activate":
		return flows.ActivateUser(ctx, *id)
	case "delete":
		return flows.DeleteUser(ctx, *id)
	default:
		return flows.LogoutAllSessions(ctx, *id)
	}
}

func runExport(ctx context.Context, args []string, flows *workflow.Workflows) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "csv", "csv or excel")
	search := fs.String("search", "", "search term")
	status := fs.String("status", "", "active|inactive|suspended")
	fs.Parse(args)

	flows.Users.SetSearch(*search)
	extra := vault.UserFilterExtra{}
	if parsed, ok := vault.ParseUserStatus(*status); ok {
		extra.Status = parsed
	}
	flows.Users.SetExtra(extra)

	_, err := flows.ExportUsers(ctx, vault.ParseExportFormat(*format))
	return err
}

func runSessions(ctx context.Context, args []string, flows *workflow.Workflows) error {
	fs := flag.NewFlagSet("sessions", flag.ExitOnError)
	search := fs.String("search", "", "search term")
	device := fs.String("device", "", "android|ios|huawei|web")
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", 10, "items per page")
	fs.Parse(args)

	flows.Sessions.SetSearch(*search)
	extra := vault.SessionFilterExtra{}
	if parsed, ok := vault.ParseDeviceType(*device); ok {
		extra.DeviceType = parsed
	}
	flows.Sessions.SetExtra(extra)
	flows.Sessions.SetPageSize(*pageSize)
	flows.Sessions.SetPage(*page)

	result, err := flows.SessionsPage(ctx)
	if err != nil {
		return err
	}
	for _, s := range result.Items {
		log.Printf("%-36s  %-24s  %-8s  %s", s.ID, s.User.Email, s.DeviceType, s.LastActivity)
	}
	log.Printf("page %d/%d, %d session(s) total", result.Page, result.TotalPages, result.Total)
	return nil
}

func runNotify(ctx context.Context, args []string, flows *workflow.Workflows) error {
	fs := flag.NewFlagSet("notify", flag.ExitOnError)
	title := fs.String("title", "", "notification title")
	message := fs.String("message", "", "notification message")
	notifType := fs.String("type", "", "notification type")
	users := fs.String("users", "", "comma-separated user ids, empty for everyone")
	push := fs.Bool("push", false, "send push notification")
	fs.Parse(args)
	if *title == "" || *message == "" {
		return fmt.Errorf("notify requires -title and -message")
	}

	req := vault.SendNotificationRequest{
		Title:    *title,
		Message:  *message,
		Type:     *notifType,
		SendPush: *push,
	}
	for _, id := range strings.Split(*users, ",") {
		if id = strings.TrimSpace(id); id != "" {
			req.UserIDs = append(req.UserIDs, id)
		}
	}
	_, err := flows.SendNotification(ctx, req)
	return err
}

func runDashboard(ctx context.Context, flows *workflow.Workflows) error {
	stats, err := flows.DashboardStats(ctx)
	if err != nil {
		return err
	}
	log.Printf("users: %d total, %d active, %d inactive, %d suspended",
		stats.TotalUsers, stats.ActiveUsers, stats.InactiveUsers, stats.SuspendedUsers)
	log.Printf("active sessions: %d", stats.ActiveSessions)
	for _, device := range stats.SessionsByDevice {
		log.Printf("  %-8s %d", device.Device, device.Count)
	}
	return nil
}

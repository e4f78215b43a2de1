// CAConnect command-line client for the financial-management platform.
//
// Sub-commands:
//
//	caconnect login              Authenticate and save the session
//	caconnect logout             Clear the saved session and caches
//	caconnect profile            Show or update the profile
//	caconnect entities           List entity memberships
//	caconnect dashboard          Entity dashboard summary
//	caconnect documents          Browse and manage the document tree
//	caconnect beneficiaries      Manage beneficiaries and their bank accounts
//	caconnect bank               Manage organisation bank accounts
//	caconnect invoices           Manage invoices
//	caconnect vouchers           Manage vouchers
//	caconnect quick <action>     Fire a quick action (e.g. add-invoice)
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Logesh-Devops/caconnect-clientui/internal/config"
	"github.com/Logesh-Devops/caconnect-clientui/internal/nav"
	"github.com/Logesh-Devops/caconnect-clientui/internal/session"
	"github.com/Logesh-Devops/caconnect-clientui/pkg/api"
	"github.com/Logesh-Devops/caconnect-clientui/pkg/logging"
	"github.com/Logesh-Devops/caconnect-clientui/pkg/models"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "login":
		cmdLogin(args)
	case "logout":
		cmdLogout(args)
	case "profile":
		cmdProfile(args)
	case "entities":
		cmdEntities(args)
	case "dashboard":
		cmdDashboard(args)
	case "documents":
		cmdDocuments(args)
	case "beneficiaries":
		cmdBeneficiaries(args)
	case "bank":
		cmdBank(args)
	case "invoices":
		cmdInvoices(args)
	case "vouchers":
		cmdVouchers(args)
	case "quick":
		cmdQuick(args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: caconnect <command> [flags]

Commands:
  login           Authenticate and save the session
  logout          Clear the saved session and caches
  profile         Show or update the profile (show|set-name|set-password|2fa)
  entities        List entity memberships
  dashboard       Entity dashboard summary
  documents       Browse and manage the document tree
  beneficiaries   Manage beneficiaries and their bank accounts
  bank            Manage organisation bank accounts
  invoices        Manage invoices
  vouchers        Manage vouchers
  quick <action>  Fire a quick action (add-beneficiary, add-invoice,
                  add-voucher, add-organisation-bank)`)
}

// app wires the config, API client and session manager for one invocation.
type app struct {
	cfg    *config.Config
	client *api.Client
	mgr    *session.Manager
}

func newApp(ctx context.Context) *app {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		fatal(err)
	}

	client := api.New(api.Config{
		IdentityURL: cfg.IdentityURL,
		FinanceURL:  cfg.FinanceURL,
		Timeout:     cfg.RequestTimeout,
	})
	mgr := session.NewManager(client, session.NewFileStore(cfg.StateDir))
	if err := mgr.Load(ctx); err != nil {
		fatal(err)
	}

	return &app{cfg: cfg, client: client, mgr: mgr}
}

// requireSession exits unless a valid session is loaded.
func (a *app) requireSession() *models.Session {
	sess := a.mgr.Session()
	if a.mgr.State() != session.StateAuthenticated || sess == nil {
		fmt.Fprintln(os.Stderr, "Not logged in. Run 'caconnect login' first.")
		os.Exit(1)
	}
	return sess
}

// openTab resolves a tab through the view router, honouring the role
// capability table and the entity requirement for entity-scoped views.
// It returns the session and the resolved entity id.
func (a *app) openTab(tab nav.Tab, entityOverride string) (*models.Session, string) {
	sess := a.requireSession()

	state := nav.NewState(sess.Role)
	state.SelectTab(tab)
	if entityOverride != "" {
		state.SelectEntity(entityOverride)
		state.SelectTab(tab)
	} else {
		state.ResolveEntity(sess)
	}

	switch view := nav.Resolve(sess.Role, state); view {
	case nav.View(tab):
		return sess, state.CurrentEntityID
	case nav.ViewLoading:
		fmt.Fprintln(os.Stderr, "No entity selected and none could be resolved; use -entity.")
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Your role (%s) cannot open %q.\n", sess.Role, tab)
		os.Exit(1)
	}
	return nil, ""
}

// fatal reports an error and exits, keeping validation and server messages
// readable.
func fatal(err error) {
	if ve, ok := api.AsValidationError(err); ok {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", ve)
	} else if ae, ok := api.AsAPIError(err); ok {
		fmt.Fprintf(os.Stderr, "Error: %s\n", ae.Detail)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

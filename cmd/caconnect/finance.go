package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Logesh-Devops/caconnect-clientui/internal/nav"
	"github.com/Logesh-Devops/caconnect-clientui/pkg/api"
)

func cmdEntities(args []string) {
	fs := flag.NewFlagSet("entities", flag.ExitOnError)
	fs.Parse(args)

	ctx := context.Background()
	a := newApp(ctx)
	sess := a.requireSession()

	if len(sess.Entities) == 0 {
		if sess.OrganizationID != "" {
			fmt.Printf("%-36s %s (organisation)\n", sess.OrganizationID, sess.OrganizationName)
			return
		}
		fmt.Println("No entities.")
		return
	}
	for _, e := range sess.Entities {
		fmt.Printf("%-36s %s\n", e.ID, e.Name)
	}
}

func cmdDashboard(args []string) {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
	fs.Parse(args)

	ctx := context.Background()
	a := newApp(ctx)

	sess, entityID := a.openTab(nav.TabDashboard, *entity)
	fmt.Printf("Dashboard for %s\n\n", nav.EntityName(sess, entityID))

	data, err := a.client.GetDashboard(ctx, entityID)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Invoices:      %d (%.2f)\n", data.TotalInvoices, data.InvoiceAmount)
	fmt.Printf("Vouchers:      %d (%.2f)\n", data.TotalVouchers, data.VoucherAmount)
	fmt.Printf("Beneficiaries: %d\n", data.TotalBeneficiaries)
	fmt.Printf("Documents:     %d\n", data.TotalDocuments)
}

func cmdBeneficiaries(args []string) {
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	ctx := context.Background()
	a := newApp(ctx)

	switch sub {
	case "list":
		fs := flag.NewFlagSet("beneficiaries list", flag.ExitOnError)
		fs.Parse(args)

		a.openTab(nav.TabBeneficiaries, "")
		list, err := a.client.GetBeneficiaries(ctx)
		if err != nil {
			fatal(err)
		}
		for _, b := range list {
			fmt.Printf("%-36s %-24s %s\n", b.ID, b.Name, b.Email)
		}

	case "add":
		fs := flag.NewFlagSet("beneficiaries add", flag.ExitOnError)
		name := fs.String("name", "", "Beneficiary name")
		email := fs.String("email", "", "Beneficiary email")
		phone := fs.String("phone", "", "Beneficiary phone")
		fs.Parse(args)

		a.openTab(nav.TabBeneficiaries, "")
		b, err := a.client.AddBeneficiary(ctx, api.BeneficiaryInput{
			Name:  *name,
			Email: *email,
			Phone: *phone,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Added beneficiary %q (%s)\n", b.Name, b.ID)

	case "rm":
		fs := flag.NewFlagSet("beneficiaries rm", flag.ExitOnError)
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect beneficiaries rm <beneficiary-id>")
			os.Exit(2)
		}

		a.openTab(nav.TabBeneficiaries, "")
		if err := a.client.DeleteBeneficiary(ctx, fs.Arg(0)); err != nil {
			fatal(err)
		}
		fmt.Println("Deleted.")

	case "accounts":
		fs := flag.NewFlagSet("beneficiaries accounts", flag.ExitOnError)
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect beneficiaries accounts <beneficiary-id>")
			os.Exit(2)
		}

		a.openTab(nav.TabBeneficiaries, "")
		accounts, err := a.client.GetBankAccounts(ctx, fs.Arg(0))
		if err != nil {
			fatal(err)
		}
		for _, acct := range accounts {
			fmt.Printf("%-36s %-20s %s\n", acct.ID, acct.BankName, acct.AccountNumber)
		}

	case "add-account":
		fs := flag.NewFlagSet("beneficiaries add-account", flag.ExitOnError)
		bank := fs.String("bank", "", "Bank name")
		number := fs.String("number", "", "Account number")
		ifsc := fs.String("ifsc", "", "IFSC code")
		holder := fs.String("holder", "", "Account holder name")
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect beneficiaries add-account [flags] <beneficiary-id>")
			os.Exit(2)
		}

		a.openTab(nav.TabBeneficiaries, "")
		acct, err := a.client.AddBankAccount(ctx, fs.Arg(0), api.BankAccountInput{
			BankName:      *bank,
			AccountNumber: *number,
			IFSCCode:      *ifsc,
			AccountHolder: *holder,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Added account %s at %s\n", acct.AccountNumber, acct.BankName)

	case "rm-account":
		fs := flag.NewFlagSet("beneficiaries rm-account", flag.ExitOnError)
		fs.Parse(args)
		if fs.NArg() != 2 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect beneficiaries rm-account <beneficiary-id> <account-id>")
			os.Exit(2)
		}

		a.openTab(nav.TabBeneficiaries, "")
		if err := a.client.DeleteBankAccount(ctx, fs.Arg(0), fs.Arg(1)); err != nil {
			fatal(err)
		}
		fmt.Println("Deleted.")

	default:
		fmt.Fprintf(os.Stderr, "Unknown beneficiaries command: %s (want list|add|rm|accounts|add-account|rm-account)\n", sub)
		os.Exit(2)
	}
}

func cmdBank(args []string) {
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	ctx := context.Background()
	a := newApp(ctx)

	switch sub {
	case "list":
		fs := flag.NewFlagSet("bank list", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		fs.Parse(args)

		_, entityID := a.openTab(nav.TabOrganisationBank, *entity)
		accounts, err := a.client.GetOrganisationBankAccounts(ctx, entityID)
		if err != nil {
			fatal(err)
		}
		for _, acct := range accounts {
			fmt.Printf("%-36s %-20s %s\n", acct.ID, acct.BankName, acct.AccountNumber)
		}

	case "add":
		fs := flag.NewFlagSet("bank add", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		bank := fs.String("bank", "", "Bank name")
		number := fs.String("number", "", "Account number")
		ifsc := fs.String("ifsc", "", "IFSC code")
		holder := fs.String("holder", "", "Account holder name")
		fs.Parse(args)

		_, entityID := a.openTab(nav.TabOrganisationBank, *entity)
		acct, err := a.client.AddOrganisationBankAccount(ctx, entityID, api.BankAccountInput{
			BankName:      *bank,
			AccountNumber: *number,
			IFSCCode:      *ifsc,
			AccountHolder: *holder,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Added account %s at %s\n", acct.AccountNumber, acct.BankName)

	case "rm":
		fs := flag.NewFlagSet("bank rm", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect bank rm <account-id>")
			os.Exit(2)
		}

		a.openTab(nav.TabOrganisationBank, *entity)
		if err := a.client.DeleteOrganisationBankAccount(ctx, fs.Arg(0)); err != nil {
			fatal(err)
		}
		fmt.Println("Deleted.")

	default:
		fmt.Fprintf(os.Stderr, "Unknown bank command: %s (want list|add|rm)\n", sub)
		os.Exit(2)
	}
}

func cmdInvoices(args []string) {
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	ctx := context.Background()
	a := newApp(ctx)

	switch sub {
	case "list":
		fs := flag.NewFlagSet("invoices list", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		fs.Parse(args)

		_, entityID := a.openTab(nav.TabFinance, *entity)
		invoices, err := a.client.GetInvoices(ctx, entityID)
		if err != nil {
			fatal(err)
		}
		for _, inv := range invoices {
			fmt.Printf("%-36s %-16s %10.2f  %s\n", inv.ID, inv.InvoiceNumber, inv.Amount, inv.Status)
		}

	case "add":
		fs := flag.NewFlagSet("invoices add", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		number := fs.String("number", "", "Invoice number")
		amount := fs.Float64("amount", 0, "Invoice amount")
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect invoices add -number N -amount X <file>")
			os.Exit(2)
		}

		_, entityID := a.openTab(nav.TabFinance, *entity)
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fatal(err)
		}
		defer f.Close()

		inv, err := a.client.AddInvoice(ctx, api.InvoiceInput{
			EntityID:      entityID,
			InvoiceNumber: *number,
			Amount:        *amount,
			FileName:      filepath.Base(fs.Arg(0)),
		}, f)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Added invoice %s (%s)\n", inv.InvoiceNumber, inv.ID)

	case "rm":
		fs := flag.NewFlagSet("invoices rm", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect invoices rm <invoice-id>")
			os.Exit(2)
		}

		_, entityID := a.openTab(nav.TabFinance, *entity)
		if err := a.client.DeleteInvoice(ctx, entityID, fs.Arg(0)); err != nil {
			fatal(err)
		}
		fmt.Println("Deleted.")

	default:
		fmt.Fprintf(os.Stderr, "Unknown invoices command: %s (want list|add|rm)\n", sub)
		os.Exit(2)
	}
}

func cmdVouchers(args []string) {
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	ctx := context.Background()
	a := newApp(ctx)

	switch sub {
	case "list":
		fs := flag.NewFlagSet("vouchers list", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		fs.Parse(args)

		_, entityID := a.openTab(nav.TabFinance, *entity)
		vouchers, err := a.client.GetVouchers(ctx, entityID)
		if err != nil {
			fatal(err)
		}
		for _, v := range vouchers {
			fmt.Printf("%-36s %-8s %-6s %10.2f  %s\n", v.ID, v.VoucherType, v.PaymentType, v.Amount, v.BeneficiaryName)
		}

	case "add":
		fs := flag.NewFlagSet("vouchers add", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		beneficiary := fs.String("beneficiary", "", "Beneficiary id")
		amount := fs.Float64("amount", 0, "Voucher amount")
		vtype := fs.String("type", "payment", "Voucher type (payment or receipt)")
		ptype := fs.String("payment", "cash", "Payment type (cash or bank)")
		from := fs.String("from", "", "Source account id (bank payments)")
		to := fs.String("to", "", "Destination account id (bank payments)")
		remarks := fs.String("remarks", "", "Free-form remarks")
		fs.Parse(args)

		_, entityID := a.openTab(nav.TabFinance, *entity)
		v, err := a.client.AddVoucher(ctx, api.VoucherInput{
			EntityID:      entityID,
			BeneficiaryID: *beneficiary,
			Amount:        *amount,
			VoucherType:   *vtype,
			PaymentType:   *ptype,
			FromAccountID: *from,
			ToAccountID:   *to,
			Remarks:       *remarks,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Added %s voucher %s (%.2f)\n", v.VoucherType, v.ID, v.Amount)

	case "rm":
		fs := flag.NewFlagSet("vouchers rm", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect vouchers rm <voucher-id>")
			os.Exit(2)
		}

		_, entityID := a.openTab(nav.TabFinance, *entity)
		if err := a.client.DeleteVoucher(ctx, entityID, fs.Arg(0)); err != nil {
			fatal(err)
		}
		fmt.Println("Deleted.")

	default:
		fmt.Fprintf(os.Stderr, "Unknown vouchers command: %s (want list|add|rm)\n", sub)
		os.Exit(2)
	}
}

// cmdQuick fires a dashboard quick action: it switches to the action's tab
// and runs the matching add command with the remaining arguments.
func cmdQuick(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: caconnect quick <action> [flags]")
		os.Exit(2)
	}
	action := nav.QuickAction(args[0])
	rest := args[1:]

	ctx := context.Background()
	a := newApp(ctx)
	sess := a.requireSession()

	state := nav.NewState(sess.Role)
	state.ResolveEntity(sess)
	if !state.Trigger(action) {
		fmt.Fprintf(os.Stderr, "Unknown quick action %q.\n", args[0])
		os.Exit(2)
	}
	if !nav.Allowed(sess.Role, state.ActiveTab) {
		fmt.Fprintf(os.Stderr, "Your role (%s) cannot open %q.\n", sess.Role, state.ActiveTab)
		os.Exit(1)
	}

	pending, _ := state.ConsumeQuickAction()
	switch pending {
	case nav.ActionAddBeneficiary:
		cmdBeneficiaries(append([]string{"add"}, rest...))
	case nav.ActionAddInvoice:
		cmdInvoices(append([]string{"add"}, rest...))
	case nav.ActionAddVoucher:
		cmdVouchers(append([]string{"add"}, rest...))
	case nav.ActionAddOrganisationBank:
		cmdBank(append([]string{"add"}, rest...))
	}
}

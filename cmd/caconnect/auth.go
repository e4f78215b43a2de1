package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/Logesh-Devops/caconnect-clientui/pkg/cache"
)

func cmdLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Account email (prompted when omitted)")
	fs.Parse(args)

	ctx := context.Background()
	a := newApp(ctx)

	reader := bufio.NewReader(os.Stdin)
	if *email == "" {
		fmt.Print("Email: ")
		line, _ := reader.ReadString('\n')
		*email = strings.TrimSpace(line)
	}

	password := promptPassword("Password: ")

	pending, err := a.mgr.Login(ctx, *email, password)
	if err != nil {
		fatal(err)
	}

	if pending {
		fmt.Print("Two-factor authentication is enabled.\nOTP: ")
		line, _ := reader.ReadString('\n')
		if err := a.mgr.VerifyOTP(ctx, strings.TrimSpace(line)); err != nil {
			fatal(err)
		}
	}

	sess := a.mgr.Session()
	fmt.Printf("Login successful! Logged in as %s (%d entities).\n", sess.Name, len(sess.Entities))
}

func cmdLogout(args []string) {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	fs.Parse(args)

	ctx := context.Background()
	a := newApp(ctx)

	// Entity-scoped caches go with the session.
	if c, err := cache.New(a.cfg.CacheDir, a.cfg.MaxCacheSize); err == nil {
		c.Clear()
	}
	if err := a.mgr.Logout(ctx); err != nil {
		fatal(err)
	}
	fmt.Println("Logged out.")
}

func cmdProfile(args []string) {
	sub := "show"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	ctx := context.Background()
	a := newApp(ctx)

	switch sub {
	case "show":
		sess := a.requireSession()
		fmt.Printf("Name:     %s\n", sess.Name)
		fmt.Printf("Email:    %s\n", sess.Sub)
		fmt.Printf("Role:     %s\n", sess.Role)
		fmt.Printf("2FA:      %v\n", sess.Is2FAEnabled)
		fmt.Printf("Entities: %d\n", len(sess.Entities))

	case "set-name":
		fs := flag.NewFlagSet("profile set-name", flag.ExitOnError)
		first := fs.String("first", "", "First name")
		last := fs.String("last", "", "Last name")
		fs.Parse(args)

		a.requireSession()
		if err := a.mgr.UpdateName(ctx, *first, *last); err != nil {
			fatal(err)
		}
		fmt.Println("Name updated.")

	case "set-password":
		fs := flag.NewFlagSet("profile set-password", flag.ExitOnError)
		fs.Parse(args)

		a.requireSession()
		current := promptPassword("Current password: ")
		newPassword := promptPassword("New password: ")
		confirm := promptPassword("Confirm new password: ")
		if err := a.mgr.UpdatePassword(ctx, current, newPassword, confirm); err != nil {
			fatal(err)
		}
		fmt.Println("Password updated.")

	case "2fa":
		fs := flag.NewFlagSet("profile 2fa", flag.ExitOnError)
		enable := fs.Bool("enable", true, "Enable (true) or disable (false)")
		fs.Parse(args)

		a.requireSession()
		if err := a.mgr.SetTwoFactor(ctx, *enable); err != nil {
			fatal(err)
		}
		fmt.Printf("Two-factor authentication %s.\n", onOff(*enable))

	default:
		fmt.Fprintf(os.Stderr, "Unknown profile command: %s (want show|set-name|set-password|2fa)\n", sub)
		os.Exit(2)
	}
}

func promptPassword(prompt string) string {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		os.Exit(1)
	}
	return string(pw)
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

package cmd

import (
	"fmt"
	"os"

	"multidialer/internal/ami"
	"multidialer/internal/config"
	"multidialer/internal/dialer"
)

// runDialer connects, authenticates, and hands control to the interactive
// session. It returns only when the session ends; the forced-disconnect
// path exits the process from its callback instead.
func runDialer(cfg config.DialerConfig, secret string) error {
	// Until the session exists nothing needs restoring, so the initial
	// disconnect handler just reports and exits. The session's own handler
	// is swapped in below, before Run puts the terminal in cbreak mode.
	client, err := ami.Connect(cfg.Manager.Host, cfg.Manager.Port, func() {
		fmt.Fprintln(os.Stderr, "\nAMI was forcibly disconnected...")
		os.Exit(1)
	})
	if err != nil {
		return fmt.Errorf("failed to connect to AMI (host: %s, user: %s): %w",
			cfg.Manager.Host, cfg.Manager.Username, err)
	}
	client.SetDebugLevel(debugLevel)

	if err := client.Login(cfg.Manager.Username, secret); err != nil {
		client.Close()
		return err
	}

	dialer.PrintBanner(os.Stdout)

	registry := dialer.NewRegistry()
	dispatcher := dialer.NewDispatcher(registry, client, cfg.Lines, os.Stderr)
	session := dialer.NewSession(dispatcher, client)
	client.SetDisconnectHandler(session.HandleDisconnect)
	return session.Run()
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"multidialer/internal/config"
	"multidialer/pkg/logging"
)

var (
	debugLevel  int
	amiHost     string
	amiUsername string
	amiPassword string
)

// rootCmd is the dialer itself; subcommands only cover housekeeping
// (version, self-update).
var rootCmd = &cobra.Command{
	Use:   "multidialer",
	Short: "9-line CLI dialer for Asterisk",
	Long: `multidialer manipulates virtual telephone "lines" on a remote Asterisk
switch over AMI, using brief commands somewhat similar to the Hayes command
set. It is a line manipulator for multi-line testing rather than a softphone:
there is no audio path.

Use it interactively, or feed it commands by redirecting a script file to
stdin. Press ? at the prompt for the command reference.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed connections)
	SilenceUsage: true,
	RunE:         runRoot,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command. Called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "multidialer version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	flags := rootCmd.Flags()
	flags.CountVarP(&debugLevel, "debug", "d", "Enable AMI debug (repeat for more verbosity)")
	flags.StringVarP(&amiHost, "host", "l", "", "Asterisk AMI hostname (default 127.0.0.1)")
	flags.StringVarP(&amiUsername, "username", "u", "", "Asterisk AMI username")
	flags.StringVarP(&amiPassword, "password", "p", "", "Asterisk AMI password (autodetected for local connections if possible)")
}

func runRoot(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelFromDebugCount(debugLevel), os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if amiHost != "" {
		cfg.Manager.Host = amiHost
	}
	if amiUsername != "" {
		cfg.Manager.Username = amiUsername
	}
	if cfg.Manager.Username == "" {
		return fmt.Errorf("no username provided (use -u flag)")
	}

	secret, err := resolveSecret(cfg)
	if err != nil {
		return err
	}

	return runDialer(cfg, secret)
}

// resolveSecret picks the AMI password: the -p flag if given, otherwise,
// for local connections only, the secret from the switch's own manager.conf.
// Running as a user that can read the Asterisk config beats passing secrets
// on the command line.
func resolveSecret(cfg config.DialerConfig) (string, error) {
	if amiPassword != "" {
		return amiPassword, nil
	}
	if cfg.Manager.Host != config.DefaultManagerHost {
		return "", fmt.Errorf("no password provided (use -p flag; autodetection only works for %s)", config.DefaultManagerHost)
	}
	secret, err := config.DetectManagerSecret(cfg.Manager.Username)
	if err != nil {
		return "", fmt.Errorf("no password specified, and failed to autodetect: %w", err)
	}
	return secret, nil
}

package config

const (
	// DefaultManagerPort is the standard Asterisk manager (AMI) TCP port.
	DefaultManagerPort = 5038

	// DefaultManagerHost is the loopback default. Password autodetection
	// from manager.conf is only attempted against this host.
	DefaultManagerHost = "127.0.0.1"
)

// GetDefaultConfig returns the built-in configuration. These match a typical
// two-server test setup: lines are provisioned as PJSIP/autotest<n> on the
// server under test, and the local waiting dialplan answers and waits.
func GetDefaultConfig() DialerConfig {
	return DialerConfig{
		Manager: ManagerConfig{
			Host: DefaultManagerHost,
			Port: DefaultManagerPort,
		},
		Lines: LinesConfig{
			PeerPrefix: "autotest",
			PlarCode:   "01",
			Context:    "idle",
			Extension:  "9999",
		},
	}
}

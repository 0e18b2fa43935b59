package config

// DialerConfig is the top-level configuration structure for multidialer.
// Every field is optional in the file; unset fields keep their defaults and
// command line flags override both.
type DialerConfig struct {
	Manager ManagerConfig `yaml:"manager"`
	Lines   LinesConfig   `yaml:"lines"`
}

// ManagerConfig describes how to reach the AMI port of the switch under test.
type ManagerConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
}

// LinesConfig describes how per-line device and dial strings are derived.
// A line n dials PJSIP/<plarCode>@<peerPrefix><n> into the local waiting
// context, and its device name is PJSIP/<peerPrefix><n>.
type LinesConfig struct {
	PeerPrefix string `yaml:"peerPrefix,omitempty"`
	PlarCode   string `yaml:"plarCode,omitempty"`
	Context    string `yaml:"context,omitempty"`
	Extension  string `yaml:"extension,omitempty"`
}

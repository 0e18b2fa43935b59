package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// For mocking in tests
var managerConfPath = "/etc/asterisk/manager.conf"

// DetectManagerSecret reads the AMI secret for the given username from the
// local Asterisk manager.conf. This is only useful when running on the same
// host as the switch with read access to its configuration, but it beats
// passing the secret on the command line.
//
// manager.conf is Asterisk INI: a [username] section containing a
// "secret = ..." line. Comments start with ';'.
func DetectManagerSecret(username string) (string, error) {
	f, err := os.Open(managerConfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", managerConfPath, err)
	}
	defer f.Close()

	inSection := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			// Section headers may carry templates, e.g. [foo](ami_template)
			section := strings.TrimPrefix(line, "[")
			if idx := strings.IndexByte(section, ']'); idx >= 0 {
				section = section[:idx]
			}
			inSection = section == username
			continue
		}

		if !inSection {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		if strings.TrimSpace(key) == "secret" {
			return strings.TrimSpace(value), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", managerConfPath, err)
	}

	return "", fmt.Errorf("no secret found for user %q in %s", username, managerConfPath)
}

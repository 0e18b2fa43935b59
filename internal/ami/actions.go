package ami

import (
	"fmt"
	"strconv"
)

// CauseNormalClearing is the Q.931 cause code for a normal hangup.
const CauseNormalClearing = 16

// Channel is one live call leg as reported by the switch.
type Channel struct {
	Name  string
	State string
}

// Login authenticates the session. Must be the first action after Connect.
func (c *Client) Login(username, secret string) error {
	if err := c.simpleAction("Login",
		header{"Username", username},
		header{"Secret", secret},
	); err != nil {
		return fmt.Errorf("login as %q failed: %w", username, err)
	}
	return nil
}

// Originate asks the switch to create a call leg on channel and connect it
// to exten@context at the given priority. Synchronous: the response arrives
// once the leg is answered or fails.
func (c *Client) Originate(channel, context, exten, priority string) error {
	return c.simpleAction("Originate",
		header{"Channel", channel},
		header{"Context", context},
		header{"Exten", exten},
		header{"Priority", priority},
	)
}

// CoreShowChannels lists the switch's active channels in the order the
// switch reports them.
func (c *Client) CoreShowChannels() ([]Channel, error) {
	resp, events, err := c.request("CoreShowChannels", "CoreShowChannelsComplete")
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, fmt.Errorf("CoreShowChannels failed: %s", resp.Get("Message"))
	}

	channels := make([]Channel, 0, len(events))
	for _, ev := range events {
		if ev.Event() != "CoreShowChannel" {
			continue
		}
		channels = append(channels, Channel{
			Name:  ev.Get("Channel"),
			State: ev.Get("ChannelStateDesc"),
		})
	}
	return channels, nil
}

// Hangup terminates the channel with the given cause code.
func (c *Client) Hangup(channel string, cause int) error {
	return c.simpleAction("Hangup",
		header{"Channel", channel},
		header{"Cause", strconv.Itoa(cause)},
	)
}

// SendFlash sends a hook flash on the channel.
func (c *Client) SendFlash(channel string) error {
	return c.simpleAction("SendFlash",
		header{"Channel", channel},
	)
}

// PlayDTMF plays a single DTMF digit on the channel. The switch queues
// digits per channel, so callers may fire a sequence without pacing.
func (c *Client) PlayDTMF(channel string, digit byte) error {
	return c.simpleAction("PlayDTMF",
		header{"Channel", channel},
		header{"Digit", string(digit)},
	)
}

// Package interactive provides the interactive command loop for
// claw-pen.
package interactive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/openclaw-protocol/clawpen-go/pkg/client"
	"github.com/openclaw-protocol/clawpen-go/pkg/session"
	"github.com/openclaw-protocol/clawpen-go/pkg/wire"
)

// Console handles interactive mode for claw-pen.
type Console struct {
	client *client.Client
	rl     *readline.Instance
}

// New creates the interactive console.
func New(c *client.Client) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "claw> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{client: c, rl: rl}, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
// Use this for log output to avoid garbling the input line.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// WatchNotifications prints session lifecycle changes and gateway
// events until ctx is cancelled. Run in its own goroutine.
func (c *Console) WatchNotifications(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-c.client.Notifications():
			c.printNotification(n)
		}
	}
}

func (c *Console) printNotification(n session.Notification) {
	out := c.rl.Stdout()
	switch n.Kind {
	case session.NotifyConnected:
		fmt.Fprintln(out, "* connected, authenticating...")
	case session.NotifyAuthenticated:
		fmt.Fprintln(out, "* authenticated")
	case session.NotifyDisconnected:
		fmt.Fprintf(out, "* disconnected: %s\n", n.Detail)
	case session.NotifyError:
		fmt.Fprintf(out, "* error: %s\n", n.Detail)
	case session.NotifyEvent:
		c.printEvent(out, n.Frame)
	}
}

func (c *Console) printEvent(out io.Writer, raw []byte) {
	frame, err := wire.DecodeFrame(raw)
	if err != nil {
		return
	}

	// Chat events get a readable rendering; everything else is shown
	// as the event name with its payload.
	var payload map[string]any
	if len(frame.Payload) > 0 {
		_ = json.Unmarshal(frame.Payload, &payload)
	}
	if text, ok := payload["text"].(string); ok {
		fmt.Fprintf(out, "< %s\n", text)
		return
	}
	if len(frame.Payload) > 0 {
		fmt.Fprintf(out, "* event %s: %s\n", frame.Event, frame.Payload)
		return
	}
	fmt.Fprintf(out, "* event %s\n", frame.Event)
}

// Run starts the interactive command loop. It returns when the user
// exits or ctx is cancelled; cancel is called on exit so the session
// shuts down with the console.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "status":
			c.cmdStatus()

		case "id":
			fmt.Fprintf(c.rl.Stdout(), "Device ID: %s\n", c.client.DeviceID())

		case "send":
			c.send(strings.TrimSpace(strings.TrimPrefix(input, parts[0])))

		case "exit", "quit":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			// Anything that is not a command is a chat message.
			c.send(input)
		}
	}
}

func (c *Console) send(message string) {
	out := c.rl.Stdout()
	if message == "" {
		fmt.Fprintln(out, "Nothing to send")
		return
	}
	if !c.client.IsAuthenticated() {
		fmt.Fprintln(out, "Not authenticated; message would be discarded")
		return
	}

	id, err := c.client.SendChat(message)
	if err != nil {
		fmt.Fprintf(out, "Send failed: %v\n", err)
		return
	}
	fmt.Fprintf(out, "> [%s] %s\n", id, message)
}

func (c *Console) cmdStatus() {
	out := c.rl.Stdout()
	fmt.Fprintf(out, "State:     %s\n", c.client.State())
	fmt.Fprintf(out, "Device ID: %s\n", c.client.DeviceID())
}

func (c *Console) printHelp() {
	fmt.Fprint(c.rl.Stdout(), `Commands:
  <text>        Send a chat message
  send <text>   Send a chat message
  status        Show connection state
  id            Show the device ID
  help, ?       Show this help
  exit, quit    Exit
`)
}

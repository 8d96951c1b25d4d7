package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/devtoolbox/jwtinspect/core"
	"github.com/devtoolbox/jwtinspect/summary"
)

// ChatCmd answers /jwt commands, from its arguments or line by line from
// stdin.
type ChatCmd struct {
	Message []string `kong:"arg" optional:"" help:"the message, e.g. /jwt <token> key=secret"`
	Reply   string   `help:"text of the message being replied to; supplies a missing token or key"`
}

// Run the command
func (a *ChatCmd) Run(ctx *Cli) error {
	c, err := core.New(core.WithLogger(ctx.Logger()))
	if err != nil {
		return errors.Wrap(err, "unable to create decoder")
	}

	if len(a.Message) > 0 {
		_, err := fmt.Fprintln(ctx.Writer(), a.reply(ctx, c, strings.Join(a.Message, " ")))
		return err
	}

	scanner := bufio.NewScanner(ctx.Reader())
	// tokens may be up to 1 MiB
	scanner.Buffer(make([]byte, 64*1024), 2*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := fmt.Fprintln(ctx.Writer(), a.reply(ctx, c, line)+"\n"); err != nil {
			return err
		}
	}
	return errors.Wrap(scanner.Err(), "unable to read stdin")
}

func (a *ChatCmd) reply(ctx *Cli, c *core.Core, message string) string {
	req := summary.ParseCommand(message).WithReply(a.Reply)
	if req.Token == "" {
		return summary.Usage
	}
	return summary.Summarize(ctx.Context(), c, req.Token, req.Key, req.ShouldVerify())
}

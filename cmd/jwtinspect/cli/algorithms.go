package cli

import (
	"fmt"

	"github.com/devtoolbox/jwtinspect/validator"
)

// AlgorithmsCmd lists the supported algorithms
type AlgorithmsCmd struct{}

// Run the command
func (a *AlgorithmsCmd) Run(ctx *Cli) error {
	for _, alg := range validator.Algorithms() {
		if _, err := fmt.Fprintf(ctx.Writer(), "%-6s %s\n", alg, alg.Family()); err != nil {
			return err
		}
	}
	return nil
}

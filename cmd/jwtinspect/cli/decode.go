package cli

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/devtoolbox/jwtinspect/core"
	"github.com/devtoolbox/jwtinspect/summary"
)

// DecodeCmd decodes a token
type DecodeCmd struct {
	KeyFlags

	Token       string `kong:"arg" required:"" help:"the token, or '-' to read it from stdin"`
	Verify      bool   `help:"verify the signature; implied by a key"`
	StrictKeyID bool   `name:"strict-kid" help:"require the header kid to match the key even when only one key is given"`
	Format      string `help:"output format" default:"text" enum:"text,json,yaml" short:"f"`
}

// Run the command
func (a *DecodeCmd) Run(ctx *Cli) error {
	raw, err := ctx.readArg(a.Token)
	if err != nil {
		return err
	}

	key, err := a.KeyFlags.Load(ctx)
	if err != nil {
		return err
	}

	c, err := core.New(
		core.WithLogger(ctx.Logger()),
		core.WithStrictKeyID(a.StrictKeyID),
	)
	if err != nil {
		return errors.Wrap(err, "unable to create decoder")
	}

	decoded, err := c.Decode(ctx.Context(), raw, key, a.Verify)
	if err != nil {
		return errors.Wrap(err, "failed to process token")
	}

	return write(ctx, a.Format, decoded)
}

func write(ctx *Cli, format string, decoded *core.DecodedJWT) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(decoded, "", "  ")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = fmt.Fprintln(ctx.Writer(), string(b))
		return err
	case "yaml":
		doc, err := yamlDocument(decoded)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(ctx.Writer())
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.WithStack(err)
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(ctx.Writer(), summary.Render(decoded))
		return err
	}
}

// yamlDocument converts decoded to plain values through its JSON form so
// that the YAML output has the same members and null/true/false signature.
func yamlDocument(decoded *core.DecodedJWT) (map[string]any, error) {
	b, err := json.Marshal(decoded)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, errors.WithStack(err)
	}
	// the round trip turned numbers into float64
	doc["header"] = plainNumbers(decoded.Header)
	doc["payload"] = plainNumbers(decoded.Payload)
	return doc, nil
}

func plainNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plainNumbers(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plainNumbers(item)
		}
		return out
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// Package commands implements the model management command surface: list,
// set, key and current, plus shell completion. Each invocation loads a
// fresh registry from the settings store and persists it back only after a
// successful mutation.
package commands

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/oryx-ai/modelhub/internal/registry"
)

type ResultKind string

const (
	ResultInfo  ResultKind = "info"
	ResultError ResultKind = "error"
)

// Result is the structured outcome handed back to the command dispatcher.
type Result struct {
	Kind    ResultKind `json:"kind"`
	Message string     `json:"message"`
}

func infoResult(format string, args ...interface{}) Result {
	return Result{Kind: ResultInfo, Message: fmt.Sprintf(format, args...)}
}

func errorResult(format string, args ...interface{}) Result {
	return Result{Kind: ResultError, Message: fmt.Sprintf(format, args...)}
}

var subcommands = []string{"list", "ls", "set", "key", "current"}

// ModelCommand handles the "model" command group. The registry service is
// an explicit dependency so tests can supply an in-memory store.
type ModelCommand struct {
	svc    *registry.Service
	logger *zap.Logger
}

func NewModelCommand(svc *registry.Service, logger *zap.Logger) *ModelCommand {
	return &ModelCommand{svc: svc, logger: logger}
}

// Execute dispatches one subcommand. Failures are reported as error
// results, never as Go errors: they are expected, user-input-driven
// outcomes.
func (c *ModelCommand) Execute(ctx context.Context, args []string) Result {
	if len(args) == 0 {
		return errorResult("usage: model <%s>", strings.Join(subcommands, "|"))
	}

	switch args[0] {
	case "list", "ls":
		return c.list(ctx)
	case "set":
		return c.set(ctx, args[1:])
	case "key":
		return c.key(ctx, args[1:])
	case "current":
		return c.current(ctx)
	default:
		return errorResult("unknown subcommand %q, expected one of: %s", args[0], strings.Join(subcommands, ", "))
	}
}

func (c *ModelCommand) list(ctx context.Context) Result {
	reg, err := c.svc.Load(ctx)
	if err != nil {
		return errorResult("failed to load model registry: %v", err)
	}

	var b strings.Builder
	b.WriteString("Available models:\n")
	for _, p := range reg.Providers() {
		keyState := "no key"
		if reg.HasValidAPIKey(p.Provider) {
			keyState = "key set"
		}
		fmt.Fprintf(&b, "\n%s (%s, %s):\n", p.Name, p.Provider, keyState)
		for _, m := range p.Models {
			marker := "  "
			if p.Provider == reg.CurrentProvider() && m.ID == reg.CurrentModel() {
				marker = "* "
			}
			fmt.Fprintf(&b, "  %s%s — %s\n", marker, m.ID, m.Name)
		}
	}
	return infoResult("%s", b.String())
}

func (c *ModelCommand) set(ctx context.Context, args []string) Result {
	if len(args) != 2 {
		return errorResult("usage: model set <provider> <model>")
	}

	provider, ok := resolveProvider(args[0])
	if !ok {
		return errorResult("unknown provider %q, expected one of: %s", args[0], strings.Join(aliasOrder, ", "))
	}

	reg, err := c.svc.Load(ctx)
	if err != nil {
		return errorResult("failed to load model registry: %v", err)
	}

	modelID := args[1]
	if !reg.SetCurrentModel(provider, modelID) {
		return errorResult("model %q is not available for provider %q, try: model list", modelID, provider)
	}

	if err := c.svc.Save(ctx, reg); err != nil {
		return errorResult("failed to save model selection: %v", err)
	}

	c.logger.Info("switched model",
		zap.String("provider", string(provider)),
		zap.String("model", modelID),
	)
	return infoResult("switched to %s/%s", provider, modelID)
}

func (c *ModelCommand) key(ctx context.Context, args []string) Result {
	if len(args) < 2 {
		return errorResult("usage: model key <provider> <api-key>")
	}

	provider, ok := resolveProvider(args[0])
	if !ok {
		return errorResult("unknown provider %q, expected one of: %s", args[0], strings.Join(aliasOrder, ", "))
	}

	// Keys may contain spaces when quoted oddly by the shell; re-join.
	key := strings.Join(args[1:], " ")

	reg, err := c.svc.Load(ctx)
	if err != nil {
		return errorResult("failed to load model registry: %v", err)
	}

	if !reg.SetProviderAPIKey(provider, key) {
		return errorResult("unknown provider %q", args[0])
	}

	if err := c.svc.Save(ctx, reg); err != nil {
		return errorResult("failed to save API key: %v", err)
	}

	c.logger.Info("updated provider API key", zap.String("provider", string(provider)))
	return infoResult("API key updated for %s", provider)
}

func (c *ModelCommand) current(ctx context.Context) Result {
	reg, err := c.svc.Load(ctx)
	if err != nil {
		return errorResult("failed to load model registry: %v", err)
	}

	info, ok := reg.CurrentModelInfo()
	if !ok {
		return infoResult("current selection %s/%s is not in the catalog; run: model set <provider> <model>",
			reg.CurrentProvider(), reg.CurrentModel())
	}
	return infoResult("current model: %s/%s (%s)", reg.CurrentProvider(), info.ID, info.Name)
}

// Complete returns prefix-matched completions for a partial argument
// string: subcommand names first, then provider aliases, then model ids
// once a provider is named.
func (c *ModelCommand) Complete(ctx context.Context, partial string) []string {
	args := strings.Fields(partial)
	trailing := strings.HasSuffix(partial, " ")

	// Completing the subcommand itself.
	if len(args) == 0 || (len(args) == 1 && !trailing) {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		return prefixMatch(subcommands, prefix)
	}

	if args[0] != "set" && args[0] != "key" {
		return nil
	}

	// Completing the provider alias.
	if len(args) == 1 || (len(args) == 2 && !trailing) {
		prefix := ""
		if len(args) == 2 {
			prefix = args[1]
		}
		return prefixMatch(aliasOrder, prefix)
	}

	// Completing the model id for "set <provider> <model>".
	if args[0] == "set" && (len(args) == 2 || (len(args) == 3 && !trailing)) {
		provider, ok := resolveProvider(args[1])
		if !ok {
			return nil
		}
		reg, err := c.svc.Load(ctx)
		if err != nil {
			return nil
		}
		prefix := ""
		if len(args) == 3 {
			prefix = args[2]
		}
		var ids []string
		for _, m := range reg.ModelsForProvider(provider) {
			ids = append(ids, m.ID)
		}
		return prefixMatch(ids, prefix)
	}

	return nil
}

func prefixMatch(candidates []string, prefix string) []string {
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gobwas/glob"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/entrhq/memos-mcp/pkg/memos"
)

type entry struct {
	tool     Tool
	resolved *jsonschema.Resolved
}

// Registry holds the tools exposed to callers and dispatches invocations to
// them. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]entry
	allow    []glob.Glob
	filtered []string
}

// NewRegistry creates an empty registry. When allow patterns are given, only
// tools whose name matches at least one glob pattern are registered.
func NewRegistry(allow ...string) (*Registry, error) {
	r := &Registry{tools: make(map[string]entry)}
	for _, pattern := range allow {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid tool pattern %q: %w", pattern, err)
		}
		r.allow = append(r.allow, g)
	}
	return r, nil
}

// Register adds a tool. Tools excluded by the allow list are skipped without
// error and reported by Filtered.
func (r *Registry) Register(tool Tool) error {
	name := tool.Name()
	if name == "" {
		return errors.New("tool name is required")
	}

	schema := tool.Schema()
	if schema == nil {
		return fmt.Errorf("tool %s: schema is required", name)
	}
	if schema.Type != "object" {
		return fmt.Errorf("tool %s: schema type must be object, got %q", name, schema.Type)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("tool %s: invalid schema: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s is already registered", name)
	}
	if !r.allowed(name) {
		if slices.Contains(r.filtered, name) {
			return fmt.Errorf("tool %s is already registered", name)
		}
		r.filtered = append(r.filtered, name)
		return nil
	}
	r.tools[name] = entry{tool: tool, resolved: resolved}
	return nil
}

func (r *Registry) allowed(name string) bool {
	if len(r.allow) == 0 {
		return true
	}
	for _, g := range r.allow {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.tools[name]
	return e.tool, ok
}

// List returns the registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)

	list := make([]Tool, 0, len(names))
	for _, name := range names {
		list = append(list, r.tools[name].tool)
	}
	return list
}

// Filtered returns the names of tools skipped by the allow list.
func (r *Registry) Filtered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.filtered)
}

// Invoke validates args against the named tool's schema and executes it.
// Every failure is returned as a *UserError.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (*ToolResult, error) {
	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &UserError{Message: fmt.Sprintf("unknown tool: %s", name)}
	}

	validated, err := validateArgs(e, args)
	if err != nil {
		return nil, toUserError(e.tool, err)
	}

	output, metadata, err := e.tool.Execute(ctx, validated)
	if err != nil {
		return nil, toUserError(e.tool, err)
	}
	return &ToolResult{Output: output, Metadata: metadata}, nil
}

// validateArgs decodes args, fills in schema defaults and validates the
// result. Missing or null arguments are treated as an empty object.
func validateArgs(e entry, args json.RawMessage) (json.RawMessage, error) {
	name := e.tool.Name()

	values := map[string]any{}
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return nil, &ValidationError{Tool: name, Err: fmt.Errorf("arguments must be a JSON object: %w", err)}
		}
		if values == nil {
			values = map[string]any{}
		}
	}

	if err := e.resolved.ApplyDefaults(&values); err != nil {
		return nil, &ValidationError{Tool: name, Err: err}
	}
	if err := e.resolved.Validate(&values); err != nil {
		return nil, &ValidationError{Tool: name, Err: err}
	}

	validated, err := json.Marshal(values)
	if err != nil {
		return nil, &ValidationError{Tool: name, Err: err}
	}
	return validated, nil
}

// toUserError maps a failure to its caller-facing form. Memos client errors
// keep their message unmodified; anything else is prefixed with the tool's
// operation.
func toUserError(tool Tool, err error) *UserError {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr
	}
	var memosErr *memos.Error
	if errors.As(err, &memosErr) {
		return &UserError{Message: memosErr.Message, Err: err}
	}
	return &UserError{Message: fmt.Sprintf("%s: %v", tool.ErrorPrefix(), err), Err: err}
}

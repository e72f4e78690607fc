// Package widget looks up and renders widgets by name.
package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/labels"
	"hermannm.dev/wikicharts/notice"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wikicharts/settings"
	"hermannm.dev/wikicharts/suggest"
)

// Env holds the collaborators shared by all widgets. It is built once at startup and passed to
// every render.
type Env struct {
	Source           query.Source
	Labels           labels.LabelResolver
	Links            labels.LinkResolver
	Settings         settings.Store
	ShowErrorDetails bool
}

// Output is the rendered widget. Exactly one of Content and Notice is set.
type Output struct {
	Widget  string         `json:"widget"`
	State   string         `json:"state,omitempty"`
	Content any            `json:"content,omitempty"`
	Notice  *notice.Notice `json:"notice,omitempty"`
}

// Factory renders a widget from its raw JSON config. Problems with the config or the render are
// reported as notices in the output, not as errors.
type Factory func(ctx context.Context, env Env, rawConfig json.RawMessage) Output

var ErrUnknownWidget = errors.New("unknown widget")

type Registry struct {
	lock      sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (registry *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("widget name cannot be blank")
	}
	if factory == nil {
		return fmt.Errorf("widget '%s' has nil factory", name)
	}

	registry.lock.Lock()
	defer registry.lock.Unlock()

	if _, exists := registry.factories[name]; exists {
		return fmt.Errorf("widget '%s' is already registered", name)
	}
	registry.factories[name] = factory
	return nil
}

// Names returns the registered widget names in sorted order.
func (registry *Registry) Names() []string {
	registry.lock.RLock()
	defer registry.lock.RUnlock()

	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns an error wrapping ErrUnknownWidget if no widget is registered under name. All
// other failures are reported as a notice in the output.
func (registry *Registry) Render(
	ctx context.Context,
	name string,
	env Env,
	rawConfig json.RawMessage,
) (Output, error) {
	registry.lock.RLock()
	factory, ok := registry.factories[name]
	registry.lock.RUnlock()

	if !ok {
		return Output{}, fmt.Errorf(
			"%w '%s'.%s", ErrUnknownWidget, name, suggest.Hint(name, registry.Names()),
		)
	}

	output := factory(ctx, env, rawConfig)
	output.Widget = name
	return output, nil
}

// decodeConfig rejects unknown fields, so that misspelled options are reported instead of ignored.
func decodeConfig(rawConfig json.RawMessage, config any) error {
	if len(bytes.TrimSpace(rawConfig)) == 0 {
		return errors.New("missing widget configuration")
	}

	decoder := json.NewDecoder(bytes.NewReader(rawConfig))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(config); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("unexpected data after widget configuration")
	}
	return nil
}

func configErrorOutput(err error) Output {
	log.Warnf("invalid widget configuration: %v", err)
	configNotice := notice.ConfigurationError(err.Error())
	return Output{Notice: &configNotice}
}

// Package publish knows the publish destination types and delivers
// publish submissions to them.
package publish

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/maxviazov/composer-workspace-service/internal/config"
	"github.com/maxviazov/composer-workspace-service/internal/model"
)

var (
	// ErrUnknownType means no publish type is registered under the name.
	ErrUnknownType = errors.New("unknown publish type")
	// ErrNotObject means a configuration is not a serialized JSON object.
	ErrNotObject = errors.New("configuration must be a JSON object")
)

// SchemaError carries the schema violations for a configuration.
type SchemaError struct {
	Type   string
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("configuration does not match %s schema: %s", e.Type, e.Detail)
}

type entry struct {
	typ    model.PublishType
	schema *jsonschema.Schema // nil accepts any object
}

// Registry holds the publish types loaded at startup. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	types map[string]entry
}

// NewRegistry compiles every type's schema up front so a bad schema fails startup.
func NewRegistry(types []config.PublishTypeConfig) (*Registry, error) {
	r := &Registry{types: make(map[string]entry, len(types))}
	for _, tc := range types {
		name := strings.TrimSpace(tc.Name)
		if name == "" {
			return nil, errors.New("publish type name is required")
		}
		if _, dup := r.types[name]; dup {
			return nil, fmt.Errorf("duplicate publish type %q", name)
		}
		e := entry{typ: model.PublishType{Name: name, Description: tc.Description}}
		if raw := strings.TrimSpace(tc.Schema); raw != "" {
			sch, err := compile(name, raw)
			if err != nil {
				return nil, err
			}
			e.schema = sch
			e.typ.Schema = json.RawMessage(raw)
		}
		r.types[name] = e
	}
	return r, nil
}

func compile(name, raw string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("publish type %q: schema is not JSON: %w", name, err)
	}
	url := "mem://publish-types/" + name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("publish type %q: %w", name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("publish type %q: compile schema: %w", name, err)
	}
	return sch, nil
}

// Types returns the registered types sorted by name.
func (r *Registry) Types() []model.PublishType {
	out := make([]model.PublishType, 0, len(r.types))
	for _, e := range r.types {
		out = append(out, e.typ)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a type by exact name.
func (r *Registry) Lookup(name string) (model.PublishType, bool) {
	e, ok := r.types[name]
	return e.typ, ok
}

// Validate checks that configuration is a JSON object accepted by the
// type's schema and returns it compacted.
func (r *Registry) Validate(typeName, configuration string) (string, error) {
	e, ok := r.types[typeName]
	if !ok {
		return "", ErrUnknownType
	}
	if strings.TrimSpace(configuration) == "" {
		configuration = "{}"
	}
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(configuration))
	if err != nil {
		return "", ErrNotObject
	}
	if _, isObject := inst.(map[string]any); !isObject {
		return "", ErrNotObject
	}
	if e.schema != nil {
		if err := e.schema.Validate(inst); err != nil {
			return "", &SchemaError{Type: typeName, Detail: schemaDetail(err)}
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(configuration)); err != nil {
		return "", ErrNotObject
	}
	return buf.String(), nil
}

// schemaDetail reports the first leaf violation as "/path: reason"; the
// full tree is too noisy for an inline field message.
func schemaDetail(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	loc := "/" + strings.Join(leaf.InstanceLocation, "/")
	return loc + ": " + leaf.ErrorKind.LocalizedString(message.NewPrinter(language.English))
}

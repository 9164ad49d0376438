package httpapi

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const profileSchema = `{
	"type": "object",
	"required": ["profile"],
	"properties": {
		"profile": {"type": "string", "minLength": 1, "maxLength": 2048}
	}
}`

const inviteSchema = `{
	"type": "object",
	"required": ["profile"],
	"properties": {
		"profile": {"type": "string", "minLength": 1, "maxLength": 2048},
		"message": {"type": "string", "maxLength": 300}
	}
}`

const messageSchema = `{
	"type": "object",
	"required": ["profile", "text"],
	"properties": {
		"profile": {"type": "string", "minLength": 1, "maxLength": 2048},
		"text": {"type": "string", "minLength": 1, "maxLength": 8000}
	}
}`

// actionSchemas holds the compiled request schemas keyed by action name.
type actionSchemas map[string]*jsonschema.Schema

func compileActionSchemas() (actionSchemas, error) {
	sources := map[string]string{
		actionLookup:  profileSchema,
		actionInvite:  inviteSchema,
		actionMessage: messageSchema,
	}

	c := jsonschema.NewCompiler()
	out := make(actionSchemas, len(sources))
	for name, src := range sources {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s schema: %w", name, err)
		}
		loc := name + ".json"
		if err := c.AddResource(loc, doc); err != nil {
			return nil, fmt.Errorf("failed to add %s schema: %w", name, err)
		}
		sch, err := c.Compile(loc)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", name, err)
		}
		out[name] = sch
	}
	return out, nil
}

// validate checks body against the action's schema and returns a client-facing message.
func (s actionSchemas) validate(action string, body []byte) error {
	sch, ok := s[action]
	if !ok {
		return fmt.Errorf("unknown action %q", action)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("invalid json body")
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("request does not match schema: %v", err)
	}
	return nil
}

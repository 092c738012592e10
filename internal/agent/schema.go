package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// cleanModelJSON strips Markdown fences and surrounding prose that models
// emit despite "raw JSON only" instructions, keeping the outermost JSON
// value.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "[{")
	if start == -1 {
		return s
	}
	var end int
	if s[start] == '[' {
		end = strings.LastIndex(s, "]")
	} else {
		end = strings.LastIndex(s, "}")
	}
	if end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}

// validate checks a decoded JSON value against the response schema. It is a
// deliberate, separate step from the model call so any backend can sit behind
// the Model interface. Only the schema features the ledger uses are checked:
// types, required object properties, enums and array items.
func validate(value any, schema *genai.Schema, path string) error {
	if schema == nil {
		return nil
	}
	if value == nil {
		if schema.Nullable != nil && *schema.Nullable {
			return nil
		}
		return fmt.Errorf("%s: is null", path)
	}

	switch schema.Type {
	case genai.TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: is %T, want object", path, value)
		}
		for _, required := range schema.Required {
			if _, present := obj[required]; !present {
				return fmt.Errorf("%s: missing required field %q", path, required)
			}
		}
		for name, propSchema := range schema.Properties {
			propValue, present := obj[name]
			if !present {
				continue
			}
			if err := validate(propValue, propSchema, path+"."+name); err != nil {
				return err
			}
		}

	case genai.TypeArray:
		arr, ok := value.([]any)
		if !ok {
			return fmt.Errorf("%s: is %T, want array", path, value)
		}
		for i, item := range arr {
			if err := validate(item, schema.Items, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}

	case genai.TypeString:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s: is %T, want string", path, value)
		}
		if len(schema.Enum) > 0 {
			for _, allowed := range schema.Enum {
				if s == allowed {
					return nil
				}
			}
			return fmt.Errorf("%s: %q is not one of the allowed values", path, s)
		}

	case genai.TypeNumber, genai.TypeInteger:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("%s: is %T, want number", path, value)
		}

	case genai.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s: is %T, want boolean", path, value)
		}
	}

	return nil
}

// decode validates raw model text against schema and unmarshals it into out.
// Any failure is reported as a reason string for a SchemaViolation.
func decode(raw string, schema *genai.Schema, out any) (reason string) {
	clean := cleanModelJSON(raw)

	var generic any
	if err := json.Unmarshal([]byte(clean), &generic); err != nil {
		return fmt.Sprintf("output is not valid JSON: %v", err)
	}
	if err := validate(generic, schema, "$"); err != nil {
		return err.Error()
	}
	if err := json.Unmarshal([]byte(clean), out); err != nil {
		return fmt.Sprintf("decoding into target type: %v", err)
	}
	return ""
}

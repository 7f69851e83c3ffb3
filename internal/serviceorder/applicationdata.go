package serviceorder

import (
	"fmt"
	"strings"

	"shelfmarket/internal/catalog"
)

// ValidateApplicationData checks the submitted answers against the service's
// form definition: every required field present and non-empty, no unknown
// fields, select answers restricted to the declared options.
func ValidateApplicationData(fields []catalog.FormField, data ApplicationData) error {
	byName := make(map[string]catalog.FormField, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	for name := range data {
		if _, ok := byName[name]; !ok {
			return fmt.Errorf("unknown field %q", name)
		}
	}

	for _, f := range fields {
		val, present := data[f.Name]
		if !present || isEmptyValue(val) {
			if f.Required {
				return fmt.Errorf("field %q is required", f.Name)
			}
			continue
		}

		switch f.Type {
		case catalog.FieldTypeSelect:
			str, ok := val.(string)
			if !ok {
				return fmt.Errorf("field %q must be a string", f.Name)
			}
			found := false
			for _, opt := range f.Options {
				if opt == str {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("field %q must be one of: %s", f.Name, strings.Join(f.Options, ", "))
			}
		case catalog.FieldTypeNumber:
			// JSON numbers decode as float64.
			if _, ok := val.(float64); !ok {
				return fmt.Errorf("field %q must be a number", f.Name)
			}
		case catalog.FieldTypeCheckbox:
			if _, ok := val.(bool); !ok {
				return fmt.Errorf("field %q must be a boolean", f.Name)
			}
		case catalog.FieldTypeText, catalog.FieldTypeDate, catalog.FieldTypeFile:
			if _, ok := val.(string); !ok {
				return fmt.Errorf("field %q must be a string", f.Name)
			}
		}
	}
	return nil
}

func isEmptyValue(val interface{}) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// allowedTransitions: fulfilment is linear with cancellation possible until
// completion.
var allowedTransitions = map[string]map[string]bool{
	StatusPending: {
		StatusProcessing: true,
		StatusCancelled:  true,
	},
	StatusProcessing: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
}

func IsAllowedTransition(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

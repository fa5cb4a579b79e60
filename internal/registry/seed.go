package registry

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	apperrors "school-activities/internal/common/errors"
	"school-activities/internal/models"
)

//go:embed catalog/activities.yaml
var defaultCatalog []byte

// seedSchema covers the per-field rules. Cross-field rules (unique names,
// roster within capacity) are checked in ValidateSeed.
const seedSchema = `{
  "type": "object",
  "required": ["activities"],
  "additionalProperties": false,
  "properties": {
    "activities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "description", "schedule", "max_participants"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "schedule": {"type": "string"},
          "max_participants": {"type": "integer", "minimum": 1},
          "participants": {
            "type": "array",
            "items": {"type": "string", "minLength": 1},
            "uniqueItems": true
          }
        }
      }
    }
  }
}`

type seedDocument struct {
	Activities []models.Activity `yaml:"activities"`
}

// DefaultSeed returns the built-in school catalog.
func DefaultSeed() ([]models.Activity, error) {
	return ParseSeed(defaultCatalog)
}

// LoadSeed reads and validates a YAML seed file.
func LoadSeed(path string) ([]models.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	seed, err := ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return seed, nil
}

// ParseSeed decodes a YAML seed document, validating it against seedSchema
// and the registry invariants.
func ParseSeed(data []byte) ([]models.Activity, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.NewInvalidSeedError(fmt.Sprintf("parse yaml: %v", err))
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(seedSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return nil, apperrors.NewInvalidSeedError(fmt.Sprintf("schema validation: %v", err))
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, apperrors.NewInvalidSeedError(strings.Join(errs, "; "))
	}

	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewInvalidSeedError(fmt.Sprintf("decode activities: %v", err))
	}

	if err := ValidateSeed(doc.Activities); err != nil {
		return nil, err
	}
	return doc.Activities, nil
}

// ValidateSeed checks the invariants every registry must start from.
func ValidateSeed(seed []models.Activity) error {
	seen := make(map[string]struct{}, len(seed))
	for _, a := range seed {
		if a.Name == "" {
			return apperrors.NewInvalidSeedError("activity name is empty")
		}
		if _, dup := seen[a.Name]; dup {
			return apperrors.NewInvalidSeedError(fmt.Sprintf("duplicate activity %q", a.Name))
		}
		seen[a.Name] = struct{}{}

		if a.MaxParticipants < 1 {
			return apperrors.NewInvalidSeedError(fmt.Sprintf("%q: max_participants must be positive", a.Name))
		}
		if len(a.Participants) > a.MaxParticipants {
			return apperrors.NewInvalidSeedError(fmt.Sprintf("%q: %d participants exceed capacity %d",
				a.Name, len(a.Participants), a.MaxParticipants))
		}

		emails := make(map[string]struct{}, len(a.Participants))
		for _, email := range a.Participants {
			if _, dup := emails[email]; dup {
				return apperrors.NewInvalidSeedError(fmt.Sprintf("%q: duplicate participant %s", a.Name, email))
			}
			emails[email] = struct{}{}
		}
	}
	return nil
}

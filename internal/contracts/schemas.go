// Package contracts validates incoming payloads against embedded JSON schemas.
package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemasFS embed.FS

var propertyForm *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	file, err := schemasFS.Open("schemas/property_form.json")
	if err != nil {
		log.Fatalf("failed to open embedded schema: %v", err)
	}
	defer file.Close()

	if err := compiler.AddResource("property_form.json", file); err != nil {
		log.Fatalf("failed to add schema resource: %v", err)
	}

	propertyForm, err = compiler.Compile("property_form.json")
	if err != nil {
		log.Fatalf("failed to compile property_form schema: %v", err)
	}
}

// ValidatePropertyForm checks a raw property submission body against the
// property_form schema. The body must be a JSON object.
func ValidatePropertyForm(body []byte) error {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := propertyForm.Validate(v); err != nil {
		return fmt.Errorf("property form validation failed: %w", err)
	}
	return nil
}

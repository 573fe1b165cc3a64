package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Villa A",
		"description": "Sea view",
		"address":     "1 Shore Rd",
		"geolocation": "52.52, 13.405",
		"price":       "500",
		"area":        "1200",
		"bedrooms":    "3",
		"bathrooms":   "2",
		"facilities":  "WiFi,Gym",
		"rating":      "4",
		"type":        "Villa",
		"images": []map[string]string{
			{"uri": "file:///photos/a.jpg"},
		},
	}
}

func TestValidatePropertyForm(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(map[string]interface{})
		expectError bool
	}{
		{"Valid form", func(map[string]interface{}) {}, false},
		{"Missing name", func(m map[string]interface{}) { delete(m, "name") }, true},
		{"Empty name", func(m map[string]interface{}) { m["name"] = "" }, true},
		{"Missing images", func(m map[string]interface{}) { delete(m, "images") }, true},
		{"Empty images", func(m map[string]interface{}) { m["images"] = []interface{}{} }, true},
		{"Image without uri", func(m map[string]interface{}) {
			m["images"] = []map[string]string{{"name": "a.jpg"}}
		}, true},
		{"Bad geolocation", func(m map[string]interface{}) { m["geolocation"] = "Berlin" }, true},
		{"Negative coordinates ok", func(m map[string]interface{}) { m["geolocation"] = "-33.87,151.21" }, false},
		{"Missing optional rating ok", func(m map[string]interface{}) { delete(m, "rating") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)
			body, err := json.Marshal(form)
			require.NoError(t, err)

			err = ValidatePropertyForm(body)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePropertyForm_InvalidJSON(t *testing.T) {
	assert.Error(t, ValidatePropertyForm([]byte("{not json")))
}

package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const position = `{
	"type": "array",
	"minItems": 2,
	"maxItems": 2,
	"items": [
		{"type": "number", "minimum": -180, "maximum": 180},
		{"type": "number", "minimum": -90, "maximum": 90}
	]
}`

var intentSchema = mustSchema(`{
	"type": "object",
	"definitions": {"position": ` + position + `},
	"properties": {
		"centerCoordinate": {"anyOf": [{"type": "null"}, {"$ref": "#/definitions/position"}]},
		"bounds": {
			"type": ["object", "null"],
			"properties": {
				"ne": {"$ref": "#/definitions/position"},
				"sw": {"$ref": "#/definitions/position"},
				"paddingTop": {"type": ["number", "null"]},
				"paddingRight": {"type": ["number", "null"]},
				"paddingBottom": {"type": ["number", "null"]},
				"paddingLeft": {"type": ["number", "null"]}
			}
		},
		"zoomLevel": {"type": ["number", "null"]},
		"pitch": {"type": ["number", "null"]},
		"heading": {"type": ["number", "null"]},
		"animationMode": {"type": ["string", "null"]},
		"animationDuration": {"type": ["integer", "null"]},
		"followUserLocation": {"type": ["boolean", "null"]},
		"followUserMode": {"enum": ["normal", "compass", "course", "", null]},
		"followPitch": {"type": ["number", "null"]},
		"followHeading": {"type": ["number", "null"]},
		"followZoomLevel": {"type": ["number", "null"]},
		"triggerKey": {"type": ["string", "number", "boolean", "null"]},
		"stops": {"type": "array", "items": {"type": "object"}}
	}
}`)

func mustSchema(s string) *gojsonschema.Schema {
	sc, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("router: bad schema: %v", err))
	}
	return sc
}

// checkSchema reports every violation in one error.
func checkSchema(sc *gojsonschema.Schema, b []byte) error {
	res, err := sc.Validate(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New(strings.Join(msgs, "; "))
}

package gateway

import (
	"encoding/json"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/internal/jsonstate"
	"github.com/qri-io/jsonschema"
)

var functionSchemaRaw = `{
	"type": "object",
	"properties": {
		"function_name": { "type": "string", "minLength": 1 },
		"repo": { "type": "string" },
		"owner": { "type": "string" },
		"branch": { "type": "string" },
		"scm": { "type": "string" },
		"by_memphis": { "type": "boolean" },
		"installed": { "type": "boolean" },
		"installed_in_progress": { "type": "boolean" },
		"updates_available": { "type": "boolean" },
		"is_valid": { "type": "boolean" },
		"invalid_reason": { "type": "string" },
		"installed_version": { "type": "string" },
		"tags": {
			"type": [ "array", "null" ],
			"items": {
				"type": "object",
				"properties": { "name": { "type": "string" } },
				"required": [ "name" ]
			}
		}
	},
	"required": [ "function_name" ]
}`

var (
	listFunctionsSchema = mustSchema(`{
		"$defs": { "function": ` + functionSchemaRaw + ` },
		"type": "object",
		"properties": {
			"installed": { "type": [ "array", "null" ], "items": { "$ref": "#/$defs/function" } },
			"other": { "type": [ "array", "null" ], "items": { "$ref": "#/$defs/function" } },
			"scm_integrated": { "type": "boolean" }
		}
	}`)

	functionDetailsSchema = mustSchema(`{
		"$defs": { "function": ` + functionSchemaRaw + ` },
		"type": "object",
		"properties": {
			"metadata_function": { "$ref": "#/$defs/function" },
			"readme_content": { "type": "string" },
			"versions": { "type": [ "array", "null" ], "items": { "type": "string" } },
			"s3_object_keys": { "type": [ "array", "null" ], "items": { "type": "string" } }
		},
		"required": [ "metadata_function" ]
	}`)

	fileCodeSchema = mustSchema(`{
		"type": "object",
		"properties": {
			"content": { "type": "string" }
		},
		"required": [ "content" ]
	}`)

	testFunctionSchema = mustSchema(`{
		"type": "object",
		"properties": {
			"success": { "type": "boolean" },
			"output": { "type": "string" },
			"logs": { "type": [ "array", "null" ], "items": { "type": "string" } }
		},
		"required": [ "success" ]
	}`)
)

func mustSchema(raw string) *jsonschema.Schema {
	rs, err := jsonstate.CompileSchema([]byte(raw))
	if err != nil {
		panic(err)
	}
	return rs
}

// decodeValidated checks body against schema before decoding it into dest.
func decodeValidated(body []byte, schema *jsonschema.Schema, dest interface{}) error {
	err := jsonstate.Validate(schema, body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dest)
}

func defaultFunction(f *types.Function) {
	if f.Tags == nil {
		f.Tags = make([]types.Tag, 0)
	}
}

func defaultFunctions(fs []*types.Function) []*types.Function {
	res := make([]*types.Function, 0, len(fs))
	for _, f := range fs {
		if f == nil {
			continue
		}
		defaultFunction(f)
		res = append(res, f)
	}
	return res
}

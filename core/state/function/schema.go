package function

const SchemaName = "function"

var functionSchemaRaw = `
{
	"$defs": {
		"status": {
			"type": "string",
			"enum": [ "not_installed", "installing", "installed", "update_available", "uninstalling" ]
		}
	},
	"title": "Function Record",
	"type": "object",
	"properties": {
		"function_name": { "type": "string", "minLength": 1 },
		"repo": { "type": "string" },
		"owner": { "type": "string" },
		"branch": { "type": "string" },
		"scm_type": { "type": "string" },
		"by_memphis": { "type": "boolean" },
		"compute_engine": { "type": "string" },
		"status": { "$ref": "#/$defs/status" },
		"previous_status": {
			"type": "string",
			"enum": [ "", "not_installed", "update_available" ]
		},
		"is_valid": { "type": "boolean" },
		"invalid_reason": { "type": "string" },
		"installed_version": { "type": "string" },
		"description": { "type": "string" },
		"image": { "type": "string" },
		"language": { "type": "string" },
		"last_commit": { "type": "string" },
		"tags": {
			"type": "array",
			"items": { "type": "string" }
		}
	},
	"required": [ "function_name", "repo", "owner", "branch", "scm_type", "status", "is_valid" ]
}`

// Schema returns the JSON schema every function record satisfies.
func Schema() []byte {
	return []byte(functionSchemaRaw)
}

package jsonstate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = []byte(`{
	"type": "object",
	"properties": {
		"name": { "type": "string" },
		"state": { "type": "string", "enum": [ "on", "off" ] }
	},
	"required": [ "name", "state" ]
}`)

func TestNewJSONState(t *testing.T) {
	_, err := NewJSONState(testSchema, []byte(`{"name": "a", "state": "on"}`))
	assert.Nil(t, err)

	_, err = NewJSONState(testSchema, []byte(`{"name": "a"}`))
	assert.NotNil(t, err)

	_, err = NewJSONState([]byte(`not a schema`), []byte(`{}`))
	assert.NotNil(t, err)
}

func TestApplyPatch(t *testing.T) {
	s, err := NewJSONState(testSchema, []byte(`{"name": "a", "state": "on"}`))
	require.Nil(t, err)

	err = s.ApplyPatch([]byte(`[{"op": "replace", "path": "/state", "value": "off"}]`))
	assert.Nil(t, err)

	var doc map[string]string
	require.Nil(t, s.Unmarshal(&doc))
	assert.Equal(t, "off", doc["state"])

	// Patches that violate the schema leave the state untouched
	err = s.ApplyPatch([]byte(`[{"op": "replace", "path": "/state", "value": "broken"}]`))
	assert.NotNil(t, err)
	require.Nil(t, s.Unmarshal(&doc))
	assert.Equal(t, "off", doc["state"])

	err = s.ApplyPatch([]byte(`not a patch`))
	assert.NotNil(t, err)
}

func TestDiff(t *testing.T) {
	patch, err := Diff([]byte(`{"name": "a", "state": "on"}`), []byte(`{"name": "a", "state": "off"}`))
	require.Nil(t, err)

	var ops []map[string]interface{}
	require.Nil(t, json.Unmarshal(patch, &ops))
	require.Equal(t, 1, len(ops))
	assert.Equal(t, "replace", ops[0]["op"])
	assert.Equal(t, "/state", ops[0]["path"])
	assert.Equal(t, "off", ops[0]["value"])

	patch, err = Diff([]byte(`{"name": "a"}`), []byte(`{"name": "a"}`))
	require.Nil(t, err)
	assert.JSONEq(t, `[]`, string(patch))
}

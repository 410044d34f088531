// Package jsonstate holds a JSON document that is only ever changed through JSON
// patches and always satisfies a JSON schema.
package jsonstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/qri-io/jsonschema"
	"github.com/wI2L/jsondiff"
)

func keyError(errs []jsonschema.KeyError) error {
	s := strings.Builder{}
	for _, e := range errs {
		s.WriteString(fmt.Sprintf("%s\n", e.Error()))
	}
	return errors.New(s.String())
}

// CompileSchema parses a raw JSON schema.
func CompileSchema(raw []byte) (*jsonschema.Schema, error) {
	rs := &jsonschema.Schema{}
	err := json.Unmarshal(raw, rs)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON schema: %s", err)
	}
	return rs, nil
}

// Validate checks doc against schema.
func Validate(schema *jsonschema.Schema, doc []byte) error {
	keyErrs, err := schema.ValidateBytes(context.Background(), doc)
	if err != nil {
		return err
	}
	if len(keyErrs) != 0 {
		return keyError(keyErrs)
	}
	return nil
}

type JSONState struct {
	schema *jsonschema.Schema
	state  []byte

	*sync.Mutex
}

func NewJSONState(jsonSchema []byte, initState []byte) (*JSONState, error) {
	rs, err := CompileSchema(jsonSchema)
	if err != nil {
		return nil, err
	}
	err = Validate(rs, initState)
	if err != nil {
		return nil, fmt.Errorf("error validating initial state: %w", err)
	}

	return &JSONState{
		schema: rs,
		state:  initState,
		Mutex:  &sync.Mutex{},
	}, nil
}

func (s *JSONState) ApplyPatch(patchJSON []byte) error {
	updated, err := s.applyImpl(patchJSON)
	if err != nil {
		return err
	}

	// only update state if everything worked out
	s.Lock()
	defer s.Unlock()

	s.state = updated

	return nil
}

func (s *JSONState) applyImpl(patchJSON []byte) ([]byte, error) {
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON patch: %s", err)
	}
	updated, err := patch.Apply(s.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error applying patch to current state: %s", err)
	}

	// check that updated state still fulfills the schema
	err = Validate(s.schema, updated)
	if err != nil {
		return nil, fmt.Errorf("error validating updated state: %w", err)
	}
	return updated, nil
}

func (s *JSONState) Unmarshal(dest interface{}) error {
	return json.Unmarshal(s.Bytes(), dest)
}

func (s *JSONState) Bytes() []byte {
	s.Lock()
	defer s.Unlock()
	return s.state
}

// Diff returns the JSON patch that turns oldDoc into newDoc.
func Diff(oldDoc, newDoc []byte) ([]byte, error) {
	patch, err := jsondiff.CompareJSON(oldDoc, newDoc)
	if err != nil {
		return nil, err
	}
	if patch == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(patch)
}

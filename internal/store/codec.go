package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"todoapp/backend"
)

//go:embed todos.schema.json
var schemaJSON string

const schemaURL = "todos.schema.json"

var taskListSchema = compileSchema()

func compileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("store: invalid embedded schema: %v", err))
	}
	return compiler.MustCompile(schemaURL)
}

// ErrMalformed marks persisted data that cannot be read as a task list.
var ErrMalformed = errors.New("malformed task list")

// Encode serializes tasks as a JSON array. An empty list encodes as "[]".
func Encode(tasks []backend.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []backend.Task{}
	}
	return json.Marshal(tasks)
}

// Decode parses a JSON array of tasks, validating its shape first.
// Errors wrap ErrMalformed.
func Decode(data []byte) ([]backend.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after task list", ErrMalformed)
	}
	if err := taskListSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var tasks []backend.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if tasks == nil {
		tasks = []backend.Task{}
	}
	return tasks, nil
}

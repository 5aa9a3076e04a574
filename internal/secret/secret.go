// Package secret implements configuration values that may indirect through
// environment variables.
//
// A secret.Value is either a literal string or a reference of the form
// ${NAME}. References are resolved against the process environment only when
// Resolve is called, so a configuration can be loaded and inspected before
// every referenced variable is set. All formatting paths (String, YAML
// marshaling, %v) expose only the unresolved form; a resolved credential can
// never leak through the type into logs or serialized output.
package secret

import (
	"fmt"
	"os"
	"strings"
)

// Value is a string that is either a literal or a ${NAME} environment
// variable reference. The zero value resolves to the empty string.
type Value struct {
	raw string
}

// New returns a Value holding the given raw string.
func New(raw string) Value {
	return Value{raw: raw}
}

// NotSetError is returned by Resolve when the referenced environment
// variable is not set.
type NotSetError struct {
	Name string
}

func (e *NotSetError) Error() string {
	return fmt.Sprintf("environment variable %q is not set", e.Name)
}

// Resolve expands the value. A ${NAME} reference reads NAME from the
// environment and fails with *NotSetError if it is unset; a literal resolves
// to itself with no error path.
func (v Value) Resolve() (string, error) {
	name, ok := v.refName()
	if !ok {
		return v.raw, nil
	}
	val, set := os.LookupEnv(name)
	if !set {
		return "", &NotSetError{Name: name}
	}
	return val, nil
}

// Raw returns the unresolved form, safe for display.
func (v Value) Raw() string {
	return v.raw
}

// IsRef reports whether the value is an environment variable reference.
func (v Value) IsRef() bool {
	_, ok := v.refName()
	return ok
}

// IsZero reports whether the value is empty. Used by yaml to omit empty
// tokens when re-serializing configuration.
func (v Value) IsZero() bool {
	return v.raw == ""
}

func (v Value) refName() (string, bool) {
	if strings.HasPrefix(v.raw, "${") && strings.HasSuffix(v.raw, "}") && len(v.raw) > 3 {
		return v.raw[2 : len(v.raw)-1], true
	}
	return "", false
}

// String returns the raw form. Resolved values are never stringified here.
func (v Value) String() string {
	return v.raw
}

// UnmarshalYAML accepts a plain YAML scalar.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v.raw = s
	return nil
}

// MarshalYAML serializes the raw, unresolved form.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.raw, nil
}

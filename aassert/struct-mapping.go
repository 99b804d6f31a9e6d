package aassert

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// NumFields asserts that object, a struct or a pointer to one, has expected exported fields.
// Fields of nested structs, pointers to structs, and element types of slices and maps count as well.
//
// Use it next to code mapping a struct between layers, e.g. a domain type to a database row,
// so that a new field fails the test until the mapping is updated.
func NumFields(t *testing.T, expected int, object any, msgAndArgs ...any) bool {
	t.Helper()

	typ := reflect.TypeOf(object)
	if typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	if typ == nil || typ.Kind() != reflect.Struct {
		return assert.Fail(t, "invalid argument, it has to be a struct", msgAndArgs...)
	}

	if fields := countFields(typ); fields != expected {
		t.Logf("the exported fields of %s changed: check all code mapping it and correct the expected count of %s",
			typ, t.Name())

		return assert.Fail(t, fmt.Sprintf("struct changed, it has: %d fields, expected: %d", fields, expected), msgAndArgs...)
	}

	return true
}

func countFields(typ reflect.Type) int {
	for typ.Kind() == reflect.Ptr || typ.Kind() == reflect.Slice || typ.Kind() == reflect.Map {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return 0
	}

	var fields int

	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		fields += 1 + countFields(field.Type)
	}

	return fields
}

package parser

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleObject(t *testing.T) {
	root, err := Parse(strings.NewReader(`{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`))
	require.NoError(t, err)

	obj, ok := root.(*models.Object)
	require.True(t, ok, "root should be an object, got %T", root)

	assert.Equal(t, []string{"name", "age", "isStudent", "city"}, obj.Keys())

	name, _ := obj.Get("name")
	assert.Equal(t, models.String("John Doe"), name)
	age, _ := obj.Get("age")
	assert.Equal(t, models.Number("30"), age)
	student, _ := obj.Get("isStudent")
	assert.Equal(t, models.Bool(false), student)
	city, _ := obj.Get("city")
	assert.Equal(t, models.Null{}, city)
}

func TestParse_KeyOrderIsPreserved(t *testing.T) {
	root, err := ParseString(`{"zeta": 1, "alpha": 2, "mid": {"y": 1, "b": 2, "a": 3}}`)
	require.NoError(t, err)

	obj := root.(*models.Object)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())

	mid, _ := obj.Get("mid")
	assert.Equal(t, []string{"y", "b", "a"}, mid.(*models.Object).Keys())
}

func TestParse_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	root, err := ParseString(`{"a": 1, "b": 2, "a": 3}`)
	require.NoError(t, err)

	obj := root.(*models.Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	a, _ := obj.Get("a")
	assert.Equal(t, models.Number("3"), a)
}

func TestParse_SimpleArray(t *testing.T) {
	root, err := ParseString(`[1, "test", true, null, 3.14]`)
	require.NoError(t, err)

	expected := models.Array{
		models.Number("1"),
		models.String("test"),
		models.Bool(true),
		models.Null{},
		models.Number("3.14"),
	}
	assert.Equal(t, expected, root)
}

func TestParse_NestedObject(t *testing.T) {
	root, err := ParseString(`{"user": {"name": "Jane Doe", "id": 123}, "active": true, "tags": ["go", "json"]}`)
	require.NoError(t, err)

	obj := root.(*models.Object)
	user, ok := obj.Get("user")
	require.True(t, ok)
	name, _ := user.(*models.Object).Get("name")
	assert.Equal(t, models.String("Jane Doe"), name)

	tags, _ := obj.Get("tags")
	assert.Equal(t, models.Array{models.String("go"), models.String("json")}, tags)
}

func TestParse_EmptyContainers(t *testing.T) {
	root, err := ParseString(`{"obj": {}, "arr": []}`)
	require.NoError(t, err)

	obj := root.(*models.Object)
	inner, _ := obj.Get("obj")
	assert.Equal(t, 0, inner.(*models.Object).Len())
	arr, _ := obj.Get("arr")
	assert.NotNil(t, arr)
	assert.Empty(t, arr.(models.Array))
}

func TestParse_DeepNesting(t *testing.T) {
	depth := 5000
	input := strings.Repeat("[", depth) + strings.Repeat("]", depth)

	root, err := ParseString(input)
	require.NoError(t, err)

	current := root
	for i := 0; i < depth-1; i++ {
		arr, ok := current.(models.Array)
		require.True(t, ok)
		require.Len(t, arr, 1)
		current = arr[0]
	}
	assert.Empty(t, current.(models.Array))
}

func TestParse_RootPrimitives(t *testing.T) {
	tests := []struct {
		name     string
		jsonStr  string
		expected models.JSONValue
	}{
		{"string", `"hello"`, models.String("hello")},
		{"number", `42`, models.Number("42")},
		{"float", `-1.5e3`, models.Number("-1.5e3")},
		{"true", `true`, models.Bool(true)},
		{"null", `null`, models.Null{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root, err := Parse(strings.NewReader(tc.jsonStr))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, root)
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader("   \n"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrEmptyInput))
}

func TestParseString_EmptyInput(t *testing.T) {
	_, err := ParseString("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input string is empty")

	_, err = ParseString("   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input string is empty")
}

func TestParse_MalformedJSON(t *testing.T) {
	tests := []struct {
		name    string
		jsonStr string
	}{
		{"missing closing brace", `{"name": "John Doe", "age": 30`},
		{"missing closing bracket", `["item1", "item2",`},
		{"trailing comma", `[1, 2,]`},
		{"bare word", `{"invalid": json}`},
		{"missing colon", `{"a" 1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseString(tc.jsonStr)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeParsing}))
		})
	}
}

func TestParse_MultipleValues(t *testing.T) {
	_, err := ParseString(`{"a": 1} {"b": 2}`)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrMultipleJSON))
}

func TestParse_TrailingGarbage(t *testing.T) {
	_, err := ParseString(`{"a": 1} xyz`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trailing data")
}

func TestParse_TrailingWhitespace(t *testing.T) {
	root, err := ParseString("{\"a\": 1}\n\n  ")
	require.NoError(t, err)
	assert.Equal(t, 1, root.(*models.Object).Len())
}

func TestParseFile_SimpleObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user": {"name": "Alice"}}`), 0o644))

	root, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, root.(*models.Object).Keys())
}

func TestParseFile_NonExistentFile(t *testing.T) {
	_, err := ParseFile("/non/existent/file.json")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))
}

func TestParseFile_EmptyPath(t *testing.T) {
	_, err := ParseFile("  ")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidFilePath))
}

func TestParseFile_EmptyFileContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := ParseFile(path)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrFileEmpty))
}

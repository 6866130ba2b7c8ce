package parser

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
)

// frame is an open array or object on the decode stack.
type frame struct {
	items  models.Array
	object *models.Object
	key    string
	hasKey bool
}

// Parse decodes exactly one JSON value from reader. Object keys keep their
// source order and numbers keep their source text.
func Parse(reader io.Reader) (models.JSONValue, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	root, err := decodeValue(decoder)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return nil, errors.NewParsingError("failed to decode JSON", err)
	}

	if decoder.More() {
		if _, err := decoder.Token(); err != nil {
			if !stderrors.Is(err, io.EOF) {
				return nil, errors.NewParsingError("invalid trailing data after first JSON value", err)
			}
		} else {
			return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
	}

	return root, nil
}

// decodeValue reads tokens until one complete value has been assembled.
// Nesting is tracked on an explicit stack so deeply nested input cannot
// exhaust the goroutine stack.
func decodeValue(decoder *json.Decoder) (models.JSONValue, error) {
	var stack []*frame
	for {
		tok, err := decoder.Token()
		if err != nil {
			if stderrors.Is(err, io.EOF) && len(stack) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}

		var value models.JSONValue
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '[':
				stack = append(stack, &frame{items: models.Array{}})
				continue
			case '{':
				stack = append(stack, &frame{object: models.NewObject()})
				continue
			default:
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.object != nil {
					value = top.object
				} else {
					value = top.items
				}
			}
		case string:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.object != nil && !top.hasKey {
					top.key, top.hasKey = t, true
					continue
				}
			}
			value = models.String(t)
		case json.Number:
			value = models.Number(t)
		case bool:
			value = models.Bool(t)
		case nil:
			value = models.Null{}
		default:
			return nil, fmt.Errorf("unexpected JSON token %T", t)
		}

		if len(stack) == 0 {
			return value, nil
		}
		top := stack[len(stack)-1]
		if top.object != nil {
			top.object.Set(top.key, value)
			top.key, top.hasKey = "", false
		} else {
			top.items = append(top.items, value)
		}
	}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.JSONValue, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.JSONValue, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to open file '%s'", filePath), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to get file stats for '%s'", filePath), err)
	}
	if stat.Size() == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}

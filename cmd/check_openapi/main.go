package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"forummini/internal/app"
)

type openAPIDoc struct {
	Components struct {
		Schemas map[string]schema `yaml:"schemas"`
	} `yaml:"components"`
}

type schema struct {
	Type       string            `yaml:"type"`
	Ref        string            `yaml:"$ref"`
	Properties map[string]schema `yaml:"properties"`
	Required   []string          `yaml:"required"`
	Items      *schema           `yaml:"items"`
}

type schemaShape struct {
	Type       string
	Required   []string
	Properties map[string]propertyShape
}

type propertyShape struct {
	Type     string
	ItemsRef string
}

// dtoSchemas pairs each documented response schema with the type the
// server encodes.
var dtoSchemas = map[string]reflect.Type{
	"UserDto":    reflect.TypeOf(app.UserDTO{}),
	"PostDto":    reflect.TypeOf(app.PostDTO{}),
	"CommentDto": reflect.TypeOf(app.CommentDTO{}),
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <openapi.yaml>\n", os.Args[0])
		os.Exit(2)
	}
	if err := check(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "openapi check failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OpenAPI consistency check passed.")
}

func check(path string) error {
	doc, err := loadDoc(path)
	if err != nil {
		return err
	}
	errSchema, err := getSchema(doc, "ErrorResponse")
	if err != nil {
		return err
	}
	if err := validateErrorResponse(errSchema); err != nil {
		return err
	}

	names := make([]string, 0, len(dtoSchemas))
	for name := range dtoSchemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s, err := getSchema(doc, name)
		if err != nil {
			return err
		}
		if err := ensureSameShape(name, shapeFromSchema(s), shapeFromType(dtoSchemas[name])); err != nil {
			return err
		}
	}
	return nil
}

func loadDoc(path string) (openAPIDoc, error) {
	var doc openAPIDoc
	raw, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func getSchema(doc openAPIDoc, name string) (schema, error) {
	if doc.Components.Schemas == nil {
		return schema{}, errors.New("components.schemas missing")
	}
	s, ok := doc.Components.Schemas[name]
	if !ok {
		return schema{}, fmt.Errorf("schema %q missing", name)
	}
	return s, nil
}

func validateErrorResponse(s schema) error {
	if s.Type != "object" {
		return errors.New("ErrorResponse must be object")
	}
	required := makeSet(s.Required)
	for _, field := range []string{"error", "statusCode", "code"} {
		if !required[field] {
			return fmt.Errorf("ErrorResponse.required must include %q", field)
		}
	}
	for field, typ := range map[string]string{
		"error":      "string",
		"statusCode": "integer",
		"code":       "string",
		"requestId":  "string",
	} {
		prop, ok := s.Properties[field]
		if !ok || prop.Type != typ {
			return fmt.Errorf("ErrorResponse.%s must be %s", field, typ)
		}
	}
	return nil
}

func shapeFromSchema(s schema) schemaShape {
	out := schemaShape{
		Type:       s.Type,
		Required:   append([]string(nil), s.Required...),
		Properties: make(map[string]propertyShape, len(s.Properties)),
	}
	sort.Strings(out.Required)
	for name, prop := range s.Properties {
		shape := propertyShape{Type: prop.Type}
		if prop.Items != nil {
			shape.ItemsRef = strings.TrimSpace(prop.Items.Ref)
		}
		out.Properties[name] = shape
	}
	return out
}

// shapeFromType derives the schema a struct encodes to. Fields without
// omitempty are required; slices of DTO structs reference their schema.
func shapeFromType(t reflect.Type) schemaShape {
	out := schemaShape{Type: "object", Properties: make(map[string]propertyShape, t.NumField())}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, opts, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		if !strings.Contains(opts, "omitempty") {
			out.Required = append(out.Required, name)
		}
		out.Properties[name] = propertyFromType(field.Type)
	}
	sort.Strings(out.Required)
	return out
}

func propertyFromType(t reflect.Type) propertyShape {
	switch t.Kind() {
	case reflect.String:
		return propertyShape{Type: "string"}
	case reflect.Int, reflect.Int32, reflect.Int64:
		return propertyShape{Type: "integer"}
	case reflect.Bool:
		return propertyShape{Type: "boolean"}
	case reflect.Pointer:
		return propertyFromType(t.Elem())
	case reflect.Slice:
		shape := propertyShape{Type: "array"}
		for name, dto := range dtoSchemas {
			if dto == t.Elem() {
				shape.ItemsRef = "#/components/schemas/" + name
			}
		}
		return shape
	default:
		return propertyShape{Type: "object"}
	}
}

func ensureSameShape(name string, documented, encoded schemaShape) error {
	if documented.Type != encoded.Type {
		return fmt.Errorf("%s type mismatch: %q vs %q", name, documented.Type, encoded.Type)
	}
	if strings.Join(documented.Required, ",") != strings.Join(encoded.Required, ",") {
		return fmt.Errorf("%s required mismatch: %v vs %v", name, documented.Required, encoded.Required)
	}
	if len(documented.Properties) != len(encoded.Properties) {
		return fmt.Errorf("%s property count mismatch: %d vs %d", name, len(documented.Properties), len(encoded.Properties))
	}
	for key, docProp := range documented.Properties {
		encProp, ok := encoded.Properties[key]
		if !ok {
			return fmt.Errorf("%s documents property %q the server does not encode", name, key)
		}
		if docProp != encProp {
			return fmt.Errorf("%s property %q mismatch: %+v vs %+v", name, key, docProp, encProp)
		}
	}
	return nil
}

func makeSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[strings.TrimSpace(v)] = true
	}
	return out
}

package playground

import (
	"strconv"
	"strings"

	"github.com/speakeasy-api/openapi/jsonschema/oas3"
	"github.com/speakeasy-api/openapi/sequencedmap"
	"gopkg.in/yaml.v3"

	"github.com/speakeasy-api/msplit"
	"github.com/speakeasy-api/msplit/splitexec"
)

// BoundarySchema describes what crosses the boundary of a split point as a
// JSON Schema object:
//
//	stackIn, stackOut        exact-length tuples, one item per value
//	localsRead, localsWritten arrays limited to the reported slots
//
// Primitive values map onto integer/number formats; references keep their
// internal name or descriptor in format.
func BoundarySchema(sp splitexec.SplitPoint) *oas3.Schema {
	props := sequencedmap.New[string, *oas3.JSONSchema[oas3.Referenceable]]()
	props.Set("stackIn", oas3.NewJSONSchemaFromSchema[oas3.Referenceable](tupleSchema(sp.NeededFromStackAtStart)))
	props.Set("stackOut", oas3.NewJSONSchemaFromSchema[oas3.Referenceable](tupleSchema(sp.PutOnStackAtEnd)))
	props.Set("localsRead", oas3.NewJSONSchemaFromSchema[oas3.Referenceable](slotsSchema(sp.LocalsRead)))
	props.Set("localsWritten", oas3.NewJSONSchemaFromSchema[oas3.Referenceable](slotsSchema(sp.LocalsWritten)))

	return &oas3.Schema{
		Type:       oas3.NewTypeFromString(oas3.SchemaTypeObject),
		Properties: props,
		Required:   []string{"stackIn", "stackOut", "localsRead", "localsWritten"},
	}
}

func tupleSchema(types []msplit.Type) *oas3.Schema {
	n := int64(len(types))
	s := &oas3.Schema{
		Type:     oas3.NewTypeFromString(oas3.SchemaTypeArray),
		MinItems: &n,
		MaxItems: &n,
	}
	for _, t := range types {
		s.PrefixItems = append(s.PrefixItems, oas3.NewJSONSchemaFromSchema[oas3.Referenceable](typeSchema(t)))
	}
	return s
}

func slotsSchema(slots []int) *oas3.Schema {
	n := int64(len(slots))
	item := &oas3.Schema{Type: oas3.NewTypeFromString(oas3.SchemaTypeInteger)}
	for _, slot := range slots {
		item.Enum = append(item.Enum, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.Itoa(slot),
			Tag:   "!!int",
		})
	}
	return &oas3.Schema{
		Type:     oas3.NewTypeFromString(oas3.SchemaTypeArray),
		Items:    oas3.NewJSONSchemaFromSchema[oas3.Referenceable](item),
		MaxItems: &n,
	}
}

func typeSchema(t msplit.Type) *oas3.Schema {
	var typ oas3.SchemaType
	var format string
	switch t.Sort() {
	case msplit.SortBoolean:
		typ = oas3.SchemaTypeBoolean
	case msplit.SortByte:
		typ, format = oas3.SchemaTypeInteger, "int8"
	case msplit.SortShort:
		typ, format = oas3.SchemaTypeInteger, "int16"
	case msplit.SortChar:
		typ, format = oas3.SchemaTypeInteger, "uint16"
	case msplit.SortInt:
		typ, format = oas3.SchemaTypeInteger, "int32"
	case msplit.SortLong:
		typ, format = oas3.SchemaTypeInteger, "int64"
	case msplit.SortFloat:
		typ, format = oas3.SchemaTypeNumber, "float"
	case msplit.SortDouble:
		typ, format = oas3.SchemaTypeNumber, "double"
	case msplit.SortArray:
		typ, format = oas3.SchemaTypeArray, t.Descriptor()
	default:
		typ, format = oas3.SchemaTypeObject, t.InternalName()
	}

	s := &oas3.Schema{Type: oas3.NewTypeFromString(typ)}
	if format != "" {
		s.Format = &format
	}
	return s
}

// SummarizeBoundary renders a boundary schema on one line, e.g.
// "stackIn=(int32, java/lang/String) stackOut=() localsRead={0,2} localsWritten={}".
func SummarizeBoundary(s *oas3.Schema) string {
	if s == nil || s.Properties == nil {
		return ""
	}
	parts := make([]string, 0, 4)
	for name, prop := range s.Properties.All() {
		parts = append(parts, name+"="+summarize(prop.GetLeft()))
	}
	return strings.Join(parts, " ")
}

func summarize(s *oas3.Schema) string {
	if s == nil {
		return "?"
	}

	typ := ""
	if types := s.GetType(); len(types) == 1 {
		typ = string(types[0])
	}

	if typ == "array" && s.Items == nil && s.MaxItems != nil {
		items := make([]string, 0, len(s.PrefixItems))
		for _, item := range s.PrefixItems {
			items = append(items, summarize(item.GetLeft()))
		}
		return "(" + strings.Join(items, ", ") + ")"
	}
	if typ == "array" && s.Items != nil && s.Format == nil {
		slots := make([]string, 0)
		if item := s.Items.GetLeft(); item != nil {
			for _, n := range item.Enum {
				slots = append(slots, n.Value)
			}
		}
		return "{" + strings.Join(slots, ",") + "}"
	}
	if s.Format != nil && *s.Format != "" {
		return *s.Format
	}
	return typ
}

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lower word", input: "widget", want: "widget"},
		{name: "pascal input", input: "WidgetFactory", want: "widgetFactory"},
		{name: "snake case", input: "widget_factory", want: "widgetFactory"},
		{name: "kebab case", input: "widget-factory", want: "widgetFactory"},
		{name: "spaces", input: "widget factory", want: "widgetFactory"},
		{name: "camel boundary preserved", input: "typeA_foo", want: "typeAFoo"},
		{name: "digits keep word breaks", input: "v2_widget", want: "v2Widget"},
		{name: "accents folded", input: "crème brûlée", want: "cremeBrulee"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, camel(tt.input))
		})
	}
}

func TestPascal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lower word", input: "untitled", want: "Untitled"},
		{name: "two words", input: "my service", want: "MyService"},
		{name: "camel input", input: "petStore", want: "PetStore"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pascal(tt.input))
		})
	}
}

func TestTypeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "typeAFoo", typeName("typeA", "foo"))
	assert.Equal(t, "widgetBody", typeName("widget", "body"))
}

func TestEnumName_Singularizes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "widgetColor", enumName("widget", "colors"))
	assert.Equal(t, "widgetStatus", enumName("widget", "status"))
}

func TestNaming_Deterministic(t *testing.T) {
	t.Parallel()

	// the same inputs always synthesize the same names
	for i := 0; i < 3; i++ {
		assert.Equal(t, typeName("typeA", "foo"), typeName("typeA", "foo"))
		assert.Equal(t, enumName("pet", "kinds"), enumName("pet", "kinds"))
	}
}

func TestNaming_SiblingsDistinct(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, typeName("typeA", "foo"), typeName("typeA", "bar"))
}

package matcher

import (
	"reflect"
	"testing"
)

func TestNameVariants(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single token", "madonna", nil},
		{"empty", "", nil},
		{"two tokens reversed", "john smith", []string{"smith john"}},
		{"middle dropped", "john michael smith", []string{"smith john", "john smith"}},
		{"nickname expanded", "bill turner", []string{"turner bill", "william turner"}},
		{"nickname contracted", "william turner", []string{"turner william", "bill turner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nameVariants(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("nameVariants(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNameVariantsDeterministic(t *testing.T) {
	first := nameVariants("elizabeth anne warren")
	for i := 0; i < 10; i++ {
		if got := nameVariants("elizabeth anne warren"); !reflect.DeepEqual(got, first) {
			t.Fatalf("variant order changed between calls: %v vs %v", first, got)
		}
	}
}

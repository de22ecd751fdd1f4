package validate

import (
	"reflect"
	"testing"
)

type user struct {
	Name string
	Age  int
}

func TestRegistry_PointerAndValueShareValidator(t *testing.T) {
	reg := NewRegistry()
	rs := NewRuleSet()
	rs.For("Name").NotEmpty()

	reg.Register(&user{}, rs)

	if _, ok := reg.Lookup(reflect.TypeOf(user{})); !ok {
		t.Fatalf("value type lookup should hit after pointer registration")
	}
	if _, ok := reg.Lookup(reflect.TypeOf(&user{})); !ok {
		t.Fatalf("pointer type lookup should hit")
	}
	if v, ok := reg.LookupFor(user{}); !ok || v != Validator(rs) {
		t.Fatalf("LookupFor mismatch: %v ok=%v", v, ok)
	}
}

func TestRegistry_MissIsNotAnError(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Lookup(reflect.TypeOf(user{})); ok {
		t.Fatalf("empty registry should miss")
	}
}

func TestRegistry_ReplaceOnReregister(t *testing.T) {
	reg := NewRegistry()
	first := NewRuleSet()
	second := NewRuleSet()

	reg.Register(user{}, first)
	reg.Register(user{}, second)

	v, ok := reg.Lookup(reflect.TypeOf(user{}))
	if !ok || v != Validator(second) {
		t.Fatalf("expected re-registration to replace, got %v", v)
	}
}

func TestRegistry_ResolverForDefersLookup(t *testing.T) {
	reg := NewRegistry()
	resolver := reg.ResolverFor(user{})

	if _, ok := resolver.ResolveValidator(); ok {
		t.Fatalf("resolver should miss before registration")
	}

	rs := NewRuleSet()
	reg.Register(user{}, rs)

	v, ok := resolver.ResolveValidator()
	if !ok || v != Validator(rs) {
		t.Fatalf("resolver should hit after registration, got %v ok=%v", v, ok)
	}
}

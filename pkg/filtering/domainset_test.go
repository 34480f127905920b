package filtering

import (
	"reflect"
	"testing"
)

func TestDomainSetKeepsFirstSeenOrder(t *testing.T) {
	set := NewDomainSet()
	for _, domain := range []string{"b.example.com", "a.example.com", "b.example.com", "", "c.example.com"} {
		set.Add(domain)
	}

	want := []string{"b.example.com", "a.example.com", "c.example.com"}
	if got := set.Domains(); !reflect.DeepEqual(got, want) {
		t.Errorf("Domains() = %v, want %v", got, want)
	}
	if set.Len() != 3 {
		t.Errorf("Len() = %d, want 3", set.Len())
	}
}

func TestDomainSetContainsIsLiteral(t *testing.T) {
	set := NewDomainSet()
	set.Add("example.com")
	set.Add("*.wild.example.com")

	if !set.Contains("example.com") {
		t.Error("expected exact match for example.com")
	}
	if set.Contains("sub.example.com") {
		t.Error("did not expect subdomain match")
	}
	if set.Contains("host.wild.example.com") {
		t.Error("wildcards must not be expanded")
	}
	if !set.Contains("*.wild.example.com") {
		t.Error("expected literal wildcard match")
	}

	var nilSet *DomainSet
	if nilSet.Contains("example.com") || nilSet.Len() != 0 || nilSet.Domains() != nil {
		t.Error("nil set should behave as empty")
	}
}

func TestMergeSets(t *testing.T) {
	first := NewDomainSet()
	first.Add("one.example.com")
	first.Add("two.example.com")
	second := NewDomainSet()
	second.Add("two.example.com")
	second.Add("three.example.com")

	merged := MergeSets(first, nil, second)
	want := []string{"one.example.com", "two.example.com", "three.example.com"}
	if got := merged.Domains(); !reflect.DeepEqual(got, want) {
		t.Errorf("MergeSets() = %v, want %v", got, want)
	}

	if empty := MergeSets(); empty.Len() != 0 {
		t.Errorf("MergeSets() with no input has %d domains", empty.Len())
	}
}

package category

import "testing"

func TestResolveLongestPrefix(t *testing.T) {
	tbl := NewTable()
	tbl.Define("app", "Application")
	tbl.Define("app/net", "Networking")

	if got, ok := tbl.Resolve("app/net/http"); !ok || got != "Networking" {
		t.Fatalf("want Networking, got %q ok=%v", got, ok)
	}
	if got, ok := tbl.Resolve("app/db"); !ok || got != "Application" {
		t.Fatalf("want Application, got %q ok=%v", got, ok)
	}
	if _, ok := tbl.Resolve("sys/kernel"); ok {
		t.Fatalf("expected no match")
	}
}

func TestDefineReplaces(t *testing.T) {
	tbl := NewTable()
	tbl.Define("app", "Old")
	tbl.Define("app", "New")
	if got, _ := tbl.Resolve("app/x"); got != "New" {
		t.Fatalf("redefine did not take effect: %q", got)
	}
	if n := len(tbl.Defined()); n != 1 {
		t.Fatalf("want single mapping, got %d", n)
	}
}

package pkg

import (
	"os"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "rubber" {
		t.Errorf("unexpected Name: %q", Name)
	}
}

func TestDescription(t *testing.T) {
	if Description == "" {
		t.Error("Description is empty")
	}

	if strings.TrimSpace(Description) != Description {
		t.Errorf("Description has surrounding whitespace: %q", Description)
	}
}

func TestVersion(t *testing.T) {
	want, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read VERSION: %v", err)
	}

	if Version != string(want) {
		t.Errorf("Version = %q, VERSION file = %q", Version, want)
	}

	if strings.TrimSpace(Version) == "" {
		t.Error("Version is empty")
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Author is empty")
	}

	for _, a := range Author {
		if a.Name == "" && a.Email == "" {
			t.Errorf("author entry has neither name nor email: %+v", a)
		}
	}
}

package version

import (
	"sort"
	"testing"
)

func TestIsVersionGreaterThan(t *testing.T) {
	tests := []struct {
		version string
		target  string
		want    bool
	}{
		{version: "0.2.0", target: "0.1.0", want: true},
		{version: "0.10.0", target: "0.9.1", want: true},
		{version: "0.1.0", target: "0.1.0", want: false},
		{version: "0.1.0", target: "0.2.0", want: false},
	}
	for _, test := range tests {
		if got := IsVersionGreaterThan(test.version, test.target); got != test.want {
			t.Errorf("IsVersionGreaterThan(%s, %s) = %v, want %v", test.version, test.target, got, test.want)
		}
	}
	if !IsVersionGreaterOrEqualThan("0.1.0", "0.1.0") {
		t.Error("equal versions should compare as greater or equal")
	}
}

func TestSchemaVersion(t *testing.T) {
	if got := GetMinorVersion("0.2.3"); got != "0.2" {
		t.Errorf("unexpected minor version %q", got)
	}
	if got := GetSchemaVersion("0.2.3"); got != "0.2.0" {
		t.Errorf("unexpected schema version %q", got)
	}
	if got := GetSchemaVersion("dev"); got != "" {
		t.Errorf("expected empty schema version, got %q", got)
	}
}

func TestSortVersion(t *testing.T) {
	versions := []string{"0.10.0", "0.2.0", "0.9.1", "0.1.0"}
	sort.Sort(SortVersion(versions))
	want := []string{"0.1.0", "0.2.0", "0.9.1", "0.10.0"}
	for i := range want {
		if versions[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", versions, want)
		}
	}
}

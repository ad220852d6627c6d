package testutil

import (
	"encoding/json"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// AssertJSONEqual compares two values through their JSON encoding and fails
// with a readable character diff, which beats eyeballing two long row dumps.
func AssertJSONEqual(t *testing.T, expected interface{}, actual interface{}) {
	t.Helper()

	expectedJSON, err := json.MarshalIndent(expected, "", "  ")
	if err != nil {
		t.Fatalf("unable to marshal expected value: %v", err)
	}
	actualJSON, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		t.Fatalf("unable to marshal actual value: %v", err)
	}

	if string(expectedJSON) == string(actualJSON) {
		return
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(expectedJSON), string(actualJSON), false)
	t.Fatalf("values differ:\n%s", dmp.DiffPrettyText(diffs))
}

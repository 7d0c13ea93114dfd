package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("target_type", "nominee"),
		attribute.String("user_id", "456"),
		attribute.String("view", "detail"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "target_type" && attrs[1].Key != "target_type" {
		t.Fatalf("expected target_type to be retained")
	}
	if attrs[0].Key != "view" && attrs[1].Key != "view" {
		t.Fatalf("expected view to be retained")
	}
}

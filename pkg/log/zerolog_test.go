package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/YuminosukeSato/gradkit/pkg/errors"
)

func TestZerologWarningIsStructured(t *testing.T) {
	var buf bytes.Buffer
	SetZerologWarningWriter(&buf)
	defer DisableZerologWarnings()

	errors.Warn(errors.NewIllConditionedWarning("RBFNetwork.Fit", 3.5e12))

	var event map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("warning output is not valid JSON: %v\noutput: %s", err, buf.String())
	}

	if event["type"] != "IllConditionedWarning" {
		t.Errorf("type = %v, want IllConditionedWarning", event["type"])
	}
	if event["operation"] != "RBFNetwork.Fit" {
		t.Errorf("operation = %v, want RBFNetwork.Fit", event["operation"])
	}
	if _, ok := event["condition_number"]; !ok {
		t.Error("condition_number field missing from warning event")
	}
}

package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/angelmondragon/storefront/pkg/enums"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code     Code
		severity enums.Severity
		verbatim bool
	}{
		{code: CodeValidation, severity: enums.SeverityWarning, verbatim: true},
		{code: CodeUnauthorized, severity: enums.SeverityWarning, verbatim: true},
		{code: CodeNotFound, severity: enums.SeverityError, verbatim: true},
		{code: CodeRejected, severity: enums.SeverityError, verbatim: true},
		{code: CodeDependency, severity: enums.SeverityError, verbatim: true},
		{code: CodeInternal, severity: enums.SeverityError, verbatim: false},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.Severity != tt.severity {
			t.Fatalf("code %s expected severity %s got %s", tt.code, tt.severity, meta.Severity)
		}
		if meta.Verbatim != tt.verbatim {
			t.Fatalf("code %s expected verbatim %v got %v", tt.code, tt.verbatim, meta.Verbatim)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta != MetadataFor(CodeInternal) {
		t.Fatalf("expected internal metadata, got %+v", meta)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeRejected, "no entry"))
	if got := As(err); got == nil || got.Code() != CodeRejected {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
	if !IsCode(err, CodeRejected) || IsCode(err, CodeValidation) {
		t.Fatalf("IsCode mismatch for %v", err)
	}
}

func TestNotice(t *testing.T) {
	sev, msg := Notice(New(CodeRejected, "Product doesn't exist"))
	if sev != enums.SeverityError || msg != "Product doesn't exist" {
		t.Fatalf("rejection should surface verbatim, got %s %q", sev, msg)
	}

	sev, msg = Notice(Wrap(CodeDependency, stdErrors.New("dial tcp: refused"), ""))
	if sev != enums.SeverityError || msg != MsgBackendUnavailable {
		t.Fatalf("empty dependency message should fall back to generic text, got %q", msg)
	}

	sev, msg = Notice(New(CodeValidation, "Login to add an item to the Cart"))
	if sev != enums.SeverityWarning || msg != "Login to add an item to the Cart" {
		t.Fatalf("validation should be a verbatim warning, got %s %q", sev, msg)
	}

	sev, msg = Notice(stdErrors.New("raw"))
	if sev != enums.SeverityError || msg != "internal error" {
		t.Fatalf("untyped errors should be internal, got %s %q", sev, msg)
	}
}

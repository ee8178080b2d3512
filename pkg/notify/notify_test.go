package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

func TestRecorderKeepsOrder(t *testing.T) {
	rec := &Recorder{}
	ctx := context.Background()
	if _, ok := rec.Last(); ok {
		t.Fatalf("empty recorder should have no last entry")
	}

	Success(ctx, rec, "Logged in successfully")
	Warning(ctx, rec, "Login to add an item to the Cart")
	Error(ctx, rec, "Product doesn't exist")

	all := rec.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(all))
	}
	want := []enums.Severity{enums.SeveritySuccess, enums.SeverityWarning, enums.SeverityError}
	for i, sev := range want {
		if all[i].Severity != sev {
			t.Fatalf("notification %d: expected %s got %s", i, sev, all[i].Severity)
		}
	}
	last, _ := rec.Last()
	if last.Message != "Product doesn't exist" {
		t.Fatalf("unexpected last message %q", last.Message)
	}
}

func TestFromError(t *testing.T) {
	n := FromError(pkgerrors.New(pkgerrors.CodeRejected, "Product doesn't exist"))
	if n.Severity != enums.SeverityError || n.Message != "Product doesn't exist" {
		t.Fatalf("unexpected notification %+v", n)
	}
	n = FromError(pkgerrors.New(pkgerrors.CodeValidation, "Username is required"))
	if n.Severity != enums.SeverityWarning {
		t.Fatalf("validation should be a warning, got %s", n.Severity)
	}
	n = FromError(errors.New("boom"))
	if n.Severity != enums.SeverityError {
		t.Fatalf("untyped should be an error, got %s", n.Severity)
	}
}

func TestMultiAndWriterNotifier(t *testing.T) {
	buf := &bytes.Buffer{}
	rec := &Recorder{}
	logBuf := &bytes.Buffer{}
	sink := Multi(NewWriterNotifier(buf), rec, nil, NewLogNotifier(logger.New(logger.Options{ServiceName: "test", Output: logBuf})))

	Warning(context.Background(), sink, "Item already in cart")

	if got := buf.String(); got != "[warning] Item already in cart\n" {
		t.Fatalf("unexpected writer output %q", got)
	}
	if len(rec.All()) != 1 {
		t.Fatalf("recorder should receive the fan-out")
	}
	if !strings.Contains(logBuf.String(), "\"severity\":\"warning\"") {
		t.Fatalf("log sink should tag severity: %s", logBuf.String())
	}
}

func TestNilLogNotifierIsNoop(t *testing.T) {
	var l *LogNotifier
	l.Notify(context.Background(), Notification{Severity: enums.SeverityError, Message: "x"})
	NewLogNotifier(nil).Notify(context.Background(), Notification{Severity: enums.SeverityError, Message: "x"})
}

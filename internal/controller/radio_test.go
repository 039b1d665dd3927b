package controller

import (
	"context"
	"testing"
	"time"

	"github.com/lemonlabs-io/radioctl/internal/notify"
)

func TestStatusReaderRead(t *testing.T) {
	tests := []struct {
		name  string
		class string
		found bool
		want  RadioStatus
	}{
		{"Good marker means on", "img_status img_status_good", true, RadioOn},
		{"Error marker means off", "img_status img_status_error", true, RadioOff},
		{"Warning marker means off", "img_status img_status_warning", true, RadioOff},
		{"Unrecognized marker fails", "img_status_blinking", true, StatusUnexpectedFailed},
		{"Missing indicator fails", "", false, StatusUnexpectedFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := newFakePage()
			if tt.found {
				page.classes[statusIndicator] = tt.class
			}
			reader := NewStatusReader(page, quietLogger())
			if got := reader.Read(context.Background()); got != tt.want {
				t.Errorf("Read() = %s, want %s", got, tt.want)
			}
		})
	}
}

// togglePage returns a fake page positioned after login and navigation,
// with the wireless configuration form inside the formframe.
func togglePage(radioEnabled bool) *fakePage {
	p := newFakePage()
	p.present["#wladv"] = true
	p.frames = []string{"treeframe", "formframe"}
	p.present["#enable_ap"] = true
	p.checks["#enable_ap"] = radioEnabled
	p.present["label[for='enable_ap']"] = true
	p.present["#apply"] = true
	p.onClick = func(p *fakePage, sel string) {
		if sel == "label[for='enable_ap']" {
			p.checks["#enable_ap"] = !p.checks["#enable_ap"]
		}
	}
	return p
}

func newTestToggler(page *fakePage) *Toggler {
	notifier := notify.NewNotifier(false, quietLogger())
	toggler := NewToggler(testConfig(), page, notifier, quietLogger())
	toggler.sleep = func(time.Duration) {}
	return toggler
}

func TestTogglerSet(t *testing.T) {
	t.Run("Enable flips checkbox and applies", func(t *testing.T) {
		page := togglePage(false)
		toggler := newTestToggler(page)

		if got := toggler.Set(context.Background(), true); got != ResultSuccess {
			t.Fatalf("Set(true) = %s, want SUCCESS", got)
		}
		if !page.checks["#enable_ap"] {
			t.Error("Checkbox should be checked after enabling")
		}
		if page.clickCount("#apply") != 1 {
			t.Errorf("Apply should be clicked exactly once, clicks: %v", page.clicks)
		}
		if page.frame != "name:formframe" {
			t.Errorf("Expected formframe scope, got %q", page.frame)
		}
	})

	t.Run("Already on short-circuits without mutation", func(t *testing.T) {
		page := togglePage(true)
		toggler := newTestToggler(page)

		if got := toggler.Set(context.Background(), true); got != ResultAlreadyOn {
			t.Fatalf("Set(true) = %s, want ALREADY_ON", got)
		}
		if page.clickCount("#apply") != 0 {
			t.Error("Apply must not be activated for a no-op")
		}
		if page.clickCount("label[for='enable_ap']") != 0 || len(page.jsClicks) != 0 {
			t.Error("Checkbox must not be touched for a no-op")
		}
	})

	t.Run("Already off short-circuits without mutation", func(t *testing.T) {
		page := togglePage(false)
		toggler := newTestToggler(page)

		if got := toggler.Set(context.Background(), false); got != ResultAlreadyOff {
			t.Fatalf("Set(false) = %s, want ALREADY_OFF", got)
		}
		if page.clickCount("#apply") != 0 {
			t.Error("Apply must not be activated for a no-op")
		}
	})

	t.Run("Obscured label falls back to script click", func(t *testing.T) {
		page := togglePage(true)
		page.present["label[for='enable_ap']"] = false // label click will fail
		page.onClick = nil
		toggler := newTestToggler(page)

		if got := toggler.Set(context.Background(), false); got != ResultSuccess {
			t.Fatalf("Set(false) = %s, want SUCCESS", got)
		}
		if len(page.jsClicks) != 1 || page.jsClicks[0] != "#enable_ap" {
			t.Errorf("Expected script click on checkbox, got %v", page.jsClicks)
		}
	})

	t.Run("Checkbox found through fallback selector", func(t *testing.T) {
		page := togglePage(false)
		page.present["#enable_ap"] = false
		delete(page.checks, "#enable_ap")
		page.present["input[name='enable_ap']"] = true
		page.checks["input[name='enable_ap']"] = false
		toggler := newTestToggler(page)

		if got := toggler.Set(context.Background(), false); got != ResultAlreadyOff {
			t.Fatalf("Set(false) = %s, want ALREADY_OFF", got)
		}
	})

	t.Run("Form frame located by partial name", func(t *testing.T) {
		page := togglePage(false)
		page.frames = []string{"treeframe", "wl_form_frame"}
		toggler := newTestToggler(page)

		if got := toggler.Set(context.Background(), true); got != ResultSuccess {
			t.Fatalf("Set(true) = %s, want SUCCESS", got)
		}
		if page.frame != "index:1" {
			t.Errorf("Expected frame index:1, got %q", page.frame)
		}
	})

	t.Run("Form frame index heuristic", func(t *testing.T) {
		page := togglePage(false)
		page.frames = []string{"treeframe", "mystery"}
		toggler := newTestToggler(page)

		if got := toggler.Set(context.Background(), true); got != ResultSuccess {
			t.Fatalf("Set(true) = %s, want SUCCESS", got)
		}
		if page.frame != "index:1" {
			t.Errorf("Expected index heuristic to pick iframe 1, got %q", page.frame)
		}
	})

	t.Run("Missing checkbox fails", func(t *testing.T) {
		page := togglePage(false)
		page.present["#enable_ap"] = false
		delete(page.checks, "#enable_ap")
		toggler := newTestToggler(page)

		if got := toggler.Set(context.Background(), true); got != ResultUnexpectedFailed {
			t.Fatalf("Set(true) = %s, want UNEXPECTED_FAILURE", got)
		}
	})

	t.Run("Missing apply control fails", func(t *testing.T) {
		page := togglePage(false)
		page.present["#apply"] = false
		toggler := newTestToggler(page)

		if got := toggler.Set(context.Background(), true); got != ResultUnexpectedFailed {
			t.Fatalf("Set(true) = %s, want UNEXPECTED_FAILURE", got)
		}
	})

	t.Run("Missing wireless settings link fails", func(t *testing.T) {
		page := togglePage(false)
		page.present["#wladv"] = false
		toggler := newTestToggler(page)

		if got := toggler.Set(context.Background(), true); got != ResultUnexpectedFailed {
			t.Fatalf("Set(true) = %s, want UNEXPECTED_FAILURE", got)
		}
	})
}

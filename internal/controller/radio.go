package controller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lemonlabs-io/radioctl/internal/browser"
	"github.com/lemonlabs-io/radioctl/internal/config"
	"github.com/lemonlabs-io/radioctl/internal/notify"
	"github.com/sirupsen/logrus"
)

// statusIndicator is the style-marker element inside the 2.4GHz section of
// the advanced settings summary.
const statusIndicator = "#title_bgn #words_title div[class^='img_status']"

// checkboxSelectors locate the radio enable checkbox, primary first.
var checkboxSelectors = []string{
	"#enable_ap",
	"input[name='enable_ap']",
	"input[type='checkbox'][value='1']",
	"tr#ap_bgn input[type='checkbox']",
}

// applySelectors locate the apply/submit control, primary first.
var applySelectors = []string{
	"#apply",
	"input[value='Apply']",
	"input[type='submit'][value*='Apply']",
	"button[value*='Apply']",
}

// StatusReader classifies the radio state from the settings summary once
// the navigator has positioned the page. Read-only.
type StatusReader struct {
	logger *logrus.Logger
	page   browser.Page
}

// NewStatusReader wires a reader to one session's page.
func NewStatusReader(page browser.Page, logger *logrus.Logger) *StatusReader {
	return &StatusReader{logger: logger, page: page}
}

// Read maps the status indicator's class to a RadioStatus. Any lookup
// failure folds into UNEXPECTED_FAILURE.
func (r *StatusReader) Read(ctx context.Context) RadioStatus {
	r.logger.Debug("Looking for 2.4GHz Wireless Settings status in content area...")

	class, found, err := r.page.ClassOf(ctx, statusIndicator)
	if err != nil {
		r.logger.Errorf("Failed to check radio status: %v", err)
		return StatusUnexpectedFailed
	}
	if !found {
		r.logger.Error("Radio status indicator not found")
		return StatusUnexpectedFailed
	}
	r.logger.Debugf("Found status element with class: %s", class)

	switch {
	case strings.Contains(class, "img_status_good"):
		r.logger.Info("Radio status: ON (img_status_good)")
		return RadioOn
	case strings.Contains(class, "img_status_error"):
		r.logger.Info("Radio status: OFF (img_status_error)")
		return RadioOff
	case strings.Contains(class, "img_status_warning"):
		r.logger.Info("Radio status: OFF (img_status_warning)")
		return RadioOff
	default:
		r.logger.Warnf("Unexpected status class: %s", class)
		return StatusUnexpectedFailed
	}
}

// Toggler flips the radio enable checkbox on the wireless configuration
// sub-page. Editing lives on a different page and frame than the summary
// the StatusReader inspects, so it re-navigates from the top document.
type Toggler struct {
	cfg      *config.Config
	logger   *logrus.Logger
	page     browser.Page
	notifier *notify.Notifier

	sleep func(time.Duration)
}

// NewToggler wires a toggler to one session's page.
func NewToggler(cfg *config.Config, page browser.Page, notifier *notify.Notifier, logger *logrus.Logger) *Toggler {
	return &Toggler{
		cfg:      cfg,
		logger:   logger,
		page:     page,
		notifier: notifier,
		sleep:    time.Sleep,
	}
}

// Set drives the radio to the desired state. When the checkbox already
// matches, it returns ALREADY_ON/ALREADY_OFF without touching anything.
func (t *Toggler) Set(ctx context.Context, enable bool) ActionResult {
	timeout := time.Duration(t.cfg.Timeout) * time.Second

	// The navigation menu lives in the top document.
	t.page.TopFrame()
	t.logger.Info("Clicking Wireless Settings link to navigate to configuration page")
	if err := t.page.WaitFor(ctx, "#wladv", timeout); err != nil {
		t.logger.Errorf("Failed to toggle radio: wireless settings link not found: %v", err)
		return ResultUnexpectedFailed
	}
	if err := t.page.Click(ctx, "#wladv"); err != nil {
		t.logger.Errorf("Failed to toggle radio: %v", err)
		return ResultUnexpectedFailed
	}
	t.sleep(3 * time.Second) // wait for navigation

	t.switchToFormFrame(ctx)

	checkbox, err := t.findCheckbox(ctx, timeout)
	if err != nil {
		t.logger.Errorf("Failed to toggle radio: %v", err)
		saveSnapshot(ctx, t.page, t.logger, t.cfg.DebugMode, "toggle_debug")
		return ResultUnexpectedFailed
	}

	checked, err := t.page.Checked(ctx, checkbox)
	if err != nil {
		t.logger.Errorf("Failed to read radio checkbox state: %v", err)
		return ResultUnexpectedFailed
	}
	if checked {
		t.logger.Info("Current radio state: ON")
	} else {
		t.logger.Info("Current radio state: OFF")
	}

	if enable && checked {
		t.logger.Info("Radio already enabled")
		return ResultAlreadyOn
	}
	if !enable && !checked {
		t.logger.Info("Radio already disabled")
		return ResultAlreadyOff
	}

	if err := t.flipCheckbox(ctx, checkbox, enable); err != nil {
		t.logger.Errorf("Failed to toggle radio: %v", err)
		saveSnapshot(ctx, t.page, t.logger, t.cfg.DebugMode, "toggle_debug")
		return ResultUnexpectedFailed
	}
	t.sleep(1 * time.Second)

	if err := t.apply(ctx); err != nil {
		t.logger.Errorf("Failed to toggle radio: %v", err)
		saveSnapshot(ctx, t.page, t.logger, t.cfg.DebugMode, "toggle_debug")
		return ResultUnexpectedFailed
	}
	t.logger.Info("Apply button clicked, waiting for changes to take effect")
	t.sleep(5 * time.Second)

	action := "disabled"
	if enable {
		action = "enabled"
	}
	t.notifier.Send("Router Radio Controller", fmt.Sprintf("2.4GHz radio %s successfully", action))
	return ResultSuccess
}

// switchToFormFrame targets the frame carrying the wireless configuration
// form: by name first, then any frame whose name mentions "form", then
// iframe index 1 — a firmware quirk observed when the name lookup fails,
// kept as a heuristic rather than a contract. When nothing matches we stay
// on the top document and let the checkbox lookup report the failure.
func (t *Toggler) switchToFormFrame(ctx context.Context) {
	t.logger.Debug("Switching to formframe to access wireless configuration")
	if err := t.page.EnterFrame(ctx, "formframe"); err == nil {
		t.sleep(2 * time.Second) // wait for form content to load
		return
	}
	t.logger.Warn("Could not find formframe by name")

	names, err := t.page.FrameNames(ctx)
	if err == nil {
		for i, name := range names {
			if name != "" && strings.Contains(strings.ToLower(name), "form") {
				if err := t.page.EnterFrameIndex(ctx, i); err == nil {
					t.logger.Debugf("Switched to iframe %d for wireless config", i)
					t.sleep(2 * time.Second)
					return
				}
			}
		}
	}

	if err := t.page.EnterFrameIndex(ctx, 1); err == nil {
		t.logger.Debug("Switched to iframe 1 for wireless config (index heuristic)")
		t.sleep(2 * time.Second)
		return
	}
	t.page.TopFrame()
}

func (t *Toggler) findCheckbox(ctx context.Context, timeout time.Duration) (string, error) {
	t.logger.Debug("Looking for Enable Wireless Router Radio checkbox")
	if err := t.page.WaitFor(ctx, checkboxSelectors[0], timeout); err == nil {
		t.logger.Debugf("Found radio enable checkbox: %s", checkboxSelectors[0])
		return checkboxSelectors[0], nil
	}
	for _, sel := range checkboxSelectors[1:] {
		if found, err := t.page.Exists(ctx, sel); err == nil && found {
			t.logger.Debugf("Found radio enable checkbox using fallback: %s", sel)
			return sel, nil
		}
	}
	return "", fmt.Errorf("could not find radio enable checkbox: %w", ErrRouterUI)
}

// flipCheckbox activates the checkbox through its label; the checkbox
// itself is visually obscured on some firmware revisions, so a direct
// script-level click is the fallback.
func (t *Toggler) flipCheckbox(ctx context.Context, checkbox string, enable bool) error {
	state := "disabled"
	if enable {
		state = "enabled"
	}
	if err := t.page.Click(ctx, "label[for='enable_ap']"); err == nil {
		t.logger.Infof("Radio checkbox %s (clicked label)", state)
		return nil
	}
	if err := t.page.ClickJS(ctx, checkbox); err != nil {
		return fmt.Errorf("could not activate radio checkbox: %w", ErrRouterUI)
	}
	t.logger.Infof("Radio checkbox %s (used script click)", state)
	return nil
}

func (t *Toggler) apply(ctx context.Context) error {
	for _, sel := range applySelectors {
		found, err := t.page.Exists(ctx, sel)
		if err != nil || !found {
			continue
		}
		t.logger.Debugf("Found Apply button using: %s", sel)
		if err := t.page.Click(ctx, sel); err != nil {
			return fmt.Errorf("could not activate apply control (%v): %w", err, ErrRouterUI)
		}
		return nil
	}
	return fmt.Errorf("could not find apply button: %w", ErrRouterUI)
}

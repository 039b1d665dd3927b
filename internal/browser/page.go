package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// Page is the DOM surface the navigation logic runs against. Selectors are
// CSS; lookups are scoped to the current frame, which starts at the top
// document and changes via EnterFrame/EnterFrameIndex/TopFrame. The
// production implementation drives Chrome over CDP; tests substitute a
// scripted fake.
type Page interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	Source(ctx context.Context) (string, error)

	Exists(ctx context.Context, sel string) (bool, error)
	// WaitFor polls for the element's presence until the timeout elapses.
	WaitFor(ctx context.Context, sel string, timeout time.Duration) error
	// Click fails when the element is missing or visually obscured.
	Click(ctx context.Context, sel string) error
	// ClickJS activates the element at script level, ignoring overlap.
	ClickJS(ctx context.Context, sel string) error
	SetValue(ctx context.Context, sel, value string) error
	ClassOf(ctx context.Context, sel string) (string, bool, error)
	Checked(ctx context.Context, sel string) (bool, error)

	FrameCount(ctx context.Context) (int, error)
	FrameNames(ctx context.Context) ([]string, error)
	EnterFrame(ctx context.Context, name string) error
	EnterFrameIndex(ctx context.Context, index int) error
	TopFrame()
}

var _ Page = (*chromePage)(nil)

// chromePage implements Page against a chromedp context. Frame scoping is
// done by evaluating against the iframe's contentDocument, which works for
// the router's same-origin frames.
type chromePage struct {
	logger *logrus.Logger
	frame  string // JS expression for the scoped document, "" = top
}

func newChromePage(logger *logrus.Logger) *chromePage {
	return &chromePage{logger: logger}
}

func (p *chromePage) doc() string {
	if p.frame == "" {
		return "document"
	}
	return p.frame
}

func (p *chromePage) eval(ctx context.Context, expr string, res interface{}) error {
	return chromedp.Run(ctx, chromedp.Evaluate(expr, res))
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	p.TopFrame()
	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (p *chromePage) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read current url: %w", err)
	}
	return url, nil
}

func (p *chromePage) Source(ctx context.Context) (string, error) {
	var html string
	expr := fmt.Sprintf("%s.documentElement.outerHTML", p.doc())
	if err := p.eval(ctx, expr, &html); err != nil {
		return "", fmt.Errorf("failed to read page source: %w", err)
	}
	return html, nil
}

func (p *chromePage) Exists(ctx context.Context, sel string) (bool, error) {
	var found bool
	expr := fmt.Sprintf("%s.querySelector(%q) !== null", p.doc(), sel)
	if err := p.eval(ctx, expr, &found); err != nil {
		return false, err
	}
	return found, nil
}

func (p *chromePage) WaitFor(ctx context.Context, sel string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		found, err := p.Exists(waitCtx, sel)
		if err == nil && found {
			return nil
		}
		select {
		case <-ticker.C:
		case <-waitCtx.Done():
			return fmt.Errorf("timeout waiting for %q after %s", sel, timeout)
		}
	}
}

func (p *chromePage) Click(ctx context.Context, sel string) error {
	// Mirrors a real pointer click: refuse elements that are missing,
	// collapsed, or covered by another element.
	expr := fmt.Sprintf(`(function() {
		const d = %s;
		const el = d.querySelector(%q);
		if (!el) return "missing";
		if (el.offsetHeight === 0 && el.offsetWidth === 0) return "hidden";
		const r = el.getBoundingClientRect();
		const hit = d.elementFromPoint(r.left + r.width / 2, r.top + r.height / 2);
		if (hit && hit !== el && !el.contains(hit) && !hit.contains(el)) return "obscured";
		el.click();
		return "";
	})()`, p.doc(), sel)

	var failure string
	if err := p.eval(ctx, expr, &failure); err != nil {
		return fmt.Errorf("click %q failed: %w", sel, err)
	}
	if failure != "" {
		return fmt.Errorf("click %q failed: element %s", sel, failure)
	}
	return nil
}

func (p *chromePage) ClickJS(ctx context.Context, sel string) error {
	expr := fmt.Sprintf(`(function() {
		const el = %s.querySelector(%q);
		if (!el) return false;
		el.click();
		return true;
	})()`, p.doc(), sel)

	var found bool
	if err := p.eval(ctx, expr, &found); err != nil {
		return fmt.Errorf("js click %q failed: %w", sel, err)
	}
	if !found {
		return fmt.Errorf("js click %q failed: element missing", sel)
	}
	return nil
}

func (p *chromePage) SetValue(ctx context.Context, sel, value string) error {
	expr := fmt.Sprintf(`(function() {
		const el = %s.querySelector(%q);
		if (!el) return false;
		el.value = %q;
		el.dispatchEvent(new Event('input', {bubbles: true}));
		el.dispatchEvent(new Event('change', {bubbles: true}));
		return true;
	})()`, p.doc(), sel, value)

	var found bool
	if err := p.eval(ctx, expr, &found); err != nil {
		return fmt.Errorf("set value on %q failed: %w", sel, err)
	}
	if !found {
		return fmt.Errorf("set value on %q failed: element missing", sel)
	}
	return nil
}

func (p *chromePage) ClassOf(ctx context.Context, sel string) (string, bool, error) {
	var res struct {
		OK    bool   `json:"ok"`
		Class string `json:"class"`
	}
	expr := fmt.Sprintf(`(function() {
		const el = %s.querySelector(%q);
		if (!el) return {ok: false, class: ""};
		return {ok: true, class: el.className};
	})()`, p.doc(), sel)

	if err := p.eval(ctx, expr, &res); err != nil {
		return "", false, fmt.Errorf("read class of %q failed: %w", sel, err)
	}
	return res.Class, res.OK, nil
}

func (p *chromePage) Checked(ctx context.Context, sel string) (bool, error) {
	found, err := p.Exists(ctx, sel)
	if err != nil {
		return false, err
	}
	if !found {
		return false, fmt.Errorf("checkbox %q not found", sel)
	}
	var checked bool
	expr := fmt.Sprintf("%s.querySelector(%q).checked === true", p.doc(), sel)
	if err := p.eval(ctx, expr, &checked); err != nil {
		return false, fmt.Errorf("read checked state of %q failed: %w", sel, err)
	}
	return checked, nil
}

func (p *chromePage) FrameCount(ctx context.Context) (int, error) {
	var count int
	if err := p.eval(ctx, "document.getElementsByTagName('iframe').length", &count); err != nil {
		return 0, fmt.Errorf("failed to count iframes: %w", err)
	}
	return count, nil
}

func (p *chromePage) FrameNames(ctx context.Context) ([]string, error) {
	var names []string
	expr := `Array.from(document.getElementsByTagName('iframe')).map(f => f.name || '')`
	if err := p.eval(ctx, expr, &names); err != nil {
		return nil, fmt.Errorf("failed to list iframe names: %w", err)
	}
	return names, nil
}

func (p *chromePage) EnterFrame(ctx context.Context, name string) error {
	var ok bool
	check := fmt.Sprintf(`(function() {
		const f = document.getElementsByName(%q)[0];
		return !!(f && f.contentDocument);
	})()`, name)
	if err := p.eval(ctx, check, &ok); err != nil {
		return fmt.Errorf("failed to switch to frame %q: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("frame %q not found", name)
	}
	p.frame = fmt.Sprintf("document.getElementsByName(%q)[0].contentDocument", name)
	return nil
}

func (p *chromePage) EnterFrameIndex(ctx context.Context, index int) error {
	var ok bool
	check := fmt.Sprintf(`(function() {
		const f = document.getElementsByTagName('iframe')[%d];
		return !!(f && f.contentDocument);
	})()`, index)
	if err := p.eval(ctx, check, &ok); err != nil {
		return fmt.Errorf("failed to switch to iframe %d: %w", index, err)
	}
	if !ok {
		return fmt.Errorf("iframe %d not found", index)
	}
	p.frame = fmt.Sprintf("document.getElementsByTagName('iframe')[%d].contentDocument", index)
	return nil
}

func (p *chromePage) TopFrame() {
	p.frame = ""
}

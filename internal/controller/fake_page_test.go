package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/lemonlabs-io/radioctl/internal/browser"
)

var _ browser.Page = (*fakePage)(nil)

// fakePage is a scriptable Page for exercising the navigation logic
// without a browser. Element presence, classes and checkbox state are maps;
// onClick/onNavigate hooks let tests mutate page state mid-sequence the
// way the real admin console does.
type fakePage struct {
	url     string
	source  string
	present map[string]bool
	classes map[string]string
	checks  map[string]bool
	frames  []string

	clickErrs map[string]error

	navigations []string
	clicks      []string
	jsClicks    []string
	values      map[string]string
	frame       string

	onClick    func(p *fakePage, sel string)
	onNavigate func(p *fakePage, url string)
}

func newFakePage() *fakePage {
	return &fakePage{
		present:   map[string]bool{},
		classes:   map[string]string{},
		checks:    map[string]bool{},
		clickErrs: map[string]error{},
		values:    map[string]string{},
	}
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.frame = ""
	p.url = url
	p.navigations = append(p.navigations, url)
	if p.onNavigate != nil {
		p.onNavigate(p, url)
	}
	return nil
}

func (p *fakePage) CurrentURL(ctx context.Context) (string, error) { return p.url, nil }
func (p *fakePage) Source(ctx context.Context) (string, error)     { return p.source, nil }

func (p *fakePage) Exists(ctx context.Context, sel string) (bool, error) {
	return p.present[sel], nil
}

func (p *fakePage) WaitFor(ctx context.Context, sel string, timeout time.Duration) error {
	if p.present[sel] {
		return nil
	}
	return fmt.Errorf("timeout waiting for %q", sel)
}

func (p *fakePage) Click(ctx context.Context, sel string) error {
	if err := p.clickErrs[sel]; err != nil {
		return err
	}
	if !p.present[sel] {
		return fmt.Errorf("click %q failed: element missing", sel)
	}
	p.clicks = append(p.clicks, sel)
	if p.onClick != nil {
		p.onClick(p, sel)
	}
	return nil
}

func (p *fakePage) ClickJS(ctx context.Context, sel string) error {
	if !p.present[sel] {
		return fmt.Errorf("js click %q failed: element missing", sel)
	}
	p.jsClicks = append(p.jsClicks, sel)
	if p.onClick != nil {
		p.onClick(p, sel)
	}
	return nil
}

func (p *fakePage) SetValue(ctx context.Context, sel, value string) error {
	if !p.present[sel] {
		return fmt.Errorf("set value on %q failed: element missing", sel)
	}
	p.values[sel] = value
	return nil
}

func (p *fakePage) ClassOf(ctx context.Context, sel string) (string, bool, error) {
	class, ok := p.classes[sel]
	return class, ok, nil
}

func (p *fakePage) Checked(ctx context.Context, sel string) (bool, error) {
	checked, ok := p.checks[sel]
	if !ok {
		return false, fmt.Errorf("checkbox %q not found", sel)
	}
	return checked, nil
}

func (p *fakePage) FrameCount(ctx context.Context) (int, error) { return len(p.frames), nil }

func (p *fakePage) FrameNames(ctx context.Context) ([]string, error) { return p.frames, nil }

func (p *fakePage) EnterFrame(ctx context.Context, name string) error {
	for _, n := range p.frames {
		if n == name {
			p.frame = "name:" + name
			return nil
		}
	}
	return fmt.Errorf("frame %q not found", name)
}

func (p *fakePage) EnterFrameIndex(ctx context.Context, index int) error {
	if index < 0 || index >= len(p.frames) {
		return fmt.Errorf("iframe %d not found", index)
	}
	p.frame = fmt.Sprintf("index:%d", index)
	return nil
}

func (p *fakePage) TopFrame() { p.frame = "" }

func (p *fakePage) clickCount(sel string) int {
	count := 0
	for _, c := range p.clicks {
		if c == sel {
			count++
		}
	}
	return count
}

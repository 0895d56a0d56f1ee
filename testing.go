package hxstore

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"

	"github.com/pthm/hxstore/lib/state"
)

// TestResult holds the result of rendering a component for testing.
//
// Provides convenience methods for asserting on HTML content, headers,
// status codes, events and flashes.
type TestResult struct {
	HTML            string
	StatusCode      int
	Headers         http.Header
	TriggeredEvents []string
	Flashes         []Flash
}

// TestRender renders the initial mount of a component and returns
// testable output.
//
// Use this for unit tests of rendering logic. It runs mount and derived
// updates but bypasses HTTP routing and snapshot decoding.
//
//	result, err := hxstore.TestRender(counter, map[string]any{"title": "Clicks"})
//	if !result.HTMLContains("Clicks") {
//	    t.Fatal("missing title")
//	}
func TestRender(c *Component, props map[string]any) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), c, props)
}

// TestRenderWithContext renders the initial mount with a custom context.
func TestRenderWithContext(ctx context.Context, c *Component, props map[string]any) (*TestResult, error) {
	var buf bytes.Buffer
	if err := c.Render(props).Render(ctx, &buf); err != nil {
		return nil, err
	}

	return &TestResult{
		HTML:       buf.String(),
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
	}, nil
}

// TestCall posts the action k against the snapshot carried by v, the same
// request the attributes from v.ActionArgs would make.
//
//	v, _ := counter.Dispatch(ctx, hxstore.Snapshot{}, "")
//	result, err := hxstore.TestCall(v, state.Set("count"), 5)
func TestCall(v View, k state.Key, args ...any) (*TestResult, error) {
	form := map[string]string{"p": v.Snapshot()}
	if len(args) > 0 {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, err
		}
		form["args"] = string(data)
	}
	return TestPost(v.c, v.c.prefix+"/"+k.Name(), form)
}

// TestAction simulates a request against an HXComponent.
//
// This tests the full HTTP lifecycle including snapshot decoding, the
// action, derived updates and rendering. Use this for integration tests:
//
//	result, err := hxstore.TestAction(comp, actionURL, "POST", map[string]string{
//	    "p":     v.Snapshot(),
//	    "value": "5",
//	})
//	if !result.IsOK() {
//	    t.Fatal("expected success")
//	}
func TestAction(
	comp HXComponent,
	actionURL string,
	method string,
	formData map[string]string,
) (*TestResult, error) {
	return NewTestRequest(method, actionURL).WithFormValues(formData).Execute(comp)
}

// TestActionWithContext simulates a request with a custom context.
func TestActionWithContext(
	ctx context.Context,
	comp HXComponent,
	actionURL string,
	method string,
	formData map[string]string,
) (*TestResult, error) {
	return NewTestRequest(method, actionURL).WithFormValues(formData).WithContext(ctx).Execute(comp)
}

// TestGet simulates a GET request (render) against an HXComponent.
//
// Convenience wrapper for TestAction with GET method:
//
//	result, err := hxstore.TestGet(comp, renderURL)
func TestGet(comp HXComponent, url string) (*TestResult, error) {
	return TestAction(comp, url, http.MethodGet, nil)
}

// TestPost simulates a POST request against an HXComponent.
//
// Convenience wrapper for TestAction with POST method:
//
//	result, err := hxstore.TestPost(comp, actionURL, map[string]string{
//	    "field": "value",
//	})
func TestPost(comp HXComponent, url string, formData map[string]string) (*TestResult, error) {
	return TestAction(comp, url, http.MethodPost, formData)
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// HasEvent checks if an event was triggered.
func (r *TestResult) HasEvent(event string) bool {
	for _, e := range r.TriggeredEvents {
		if strings.Contains(e, event) {
			return true
		}
	}
	return false
}

// HasFlash checks if a flash message was set with the given level and message.
func (r *TestResult) HasFlash(level, message string) bool {
	for _, f := range r.Flashes {
		if f.Level == level && f.Message == message {
			return true
		}
	}
	return false
}

// HasFlashLevel checks if any flash message was set with the given level.
func (r *TestResult) HasFlashLevel(level string) bool {
	for _, f := range r.Flashes {
		if f.Level == level {
			return true
		}
	}
	return false
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// GetHeader returns the value of a header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// parseTriggerHeader returns the event names in an HX-Trigger value: the
// keys of a JSON object (sorted), or a comma-separated list of names.
func parseTriggerHeader(trigger string) []string {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return nil
	}

	if strings.HasPrefix(trigger, "{") {
		var detail map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trigger), &detail); err != nil {
			return nil
		}
		events := make([]string, 0, len(detail))
		for name := range detail {
			events = append(events, name)
		}
		sort.Strings(events)
		return events
	}

	var events []string
	for _, p := range strings.Split(trigger, ",") {
		if p = strings.TrimSpace(p); p != "" {
			events = append(events, p)
		}
	}
	return events
}

// parseFlashesFromHTML extracts flash messages from OOB swap HTML.
// Looks for patterns like: <div class="toast toast-success" ...>message</div>
func parseFlashesFromHTML(html string) []Flash {
	var flashes []Flash

	// Find all toast divs
	const prefix = `<div class="toast toast-`
	idx := 0
	for {
		start := strings.Index(html[idx:], prefix)
		if start == -1 {
			break
		}
		start += idx + len(prefix)

		// Extract level (until the next quote)
		levelEnd := strings.Index(html[start:], `"`)
		if levelEnd == -1 {
			break
		}
		level := html[start : start+levelEnd]

		// Find the closing > of the opening tag
		tagEnd := strings.Index(html[start:], ">")
		if tagEnd == -1 {
			break
		}
		contentStart := start + tagEnd + 1

		// Find the closing </div>
		contentEnd := strings.Index(html[contentStart:], "</div>")
		if contentEnd == -1 {
			break
		}
		message := html[contentStart : contentStart+contentEnd]

		flashes = append(flashes, Flash{
			Level:   level,
			Message: message,
		})

		idx = contentStart + contentEnd
	}

	return flashes
}

// TestRequestBuilder provides a fluent interface for building test requests.
//
// Use this when you need fine-grained control over request construction:
//
//	result, err := hxstore.NewTestRequest("POST", actionURL).
//	    WithFormData("name", "value").
//	    WithHeader("X-Custom", "header").
//	    WithContext(ctx).
//	    Execute(comp)
type TestRequestBuilder struct {
	method   string
	url      string
	formData map[string]string
	headers  map[string]string
	ctx      context.Context
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, url string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:   method,
		url:      url,
		formData: make(map[string]string),
		headers:  make(map[string]string),
		ctx:      context.Background(),
	}
}

// WithFormData adds form data to the request.
func (b *TestRequestBuilder) WithFormData(key, value string) *TestRequestBuilder {
	b.formData[key] = value
	return b
}

// WithFormValues adds multiple form values to the request.
func (b *TestRequestBuilder) WithFormValues(data map[string]string) *TestRequestBuilder {
	for k, v := range data {
		b.formData[k] = v
	}
	return b
}

// WithHeader adds a header to the request.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Execute executes the request against an HXComponent.
func (b *TestRequestBuilder) Execute(comp HXComponent) (*TestResult, error) {
	// Build form body
	form := url.Values{}
	for k, v := range b.formData {
		form.Set(k, v)
	}

	var body *strings.Reader
	if len(b.formData) > 0 {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(b.method, b.url, body)
	req = req.WithContext(b.ctx)

	// Set default HTMX header
	req.Header.Set("HX-Request", "true")

	// Set content type if form data present
	if len(b.formData) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Set custom headers
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}

	// Record response
	rec := httptest.NewRecorder()
	comp.HXServeHTTP(rec, req)

	result := &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}

	// Parse triggered events
	if trigger := rec.Header().Get("HX-Trigger"); trigger != "" {
		result.TriggeredEvents = parseTriggerHeader(trigger)
	}

	// Parse flashes
	result.Flashes = parseFlashesFromHTML(result.HTML)

	return result, nil
}

package hxstore

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
)

// WireAttrs builds the minimal HTMX attributes for a component request.
//
// For GET, returns hx-get with the snapshot and vals in the query string.
// For POST/PUT/DELETE/PATCH, returns hx-post (etc.) with the snapshot
// under "p" and vals merged into hx-vals.
//
// Targeting and swapping are added by View.Action; callers building their
// own markup can set hx-target, hx-swap and hx-trigger directly.
func WireAttrs(path, method, encoded string, vals map[string]string) templ.Attributes {
	attrs := templ.Attributes{}

	params := make(map[string]string, len(vals)+1)
	for k, v := range vals {
		params[k] = v
	}
	if encoded != "" {
		params["p"] = encoded
	}

	if method == http.MethodGet || method == "" {
		target := path
		if len(params) > 0 {
			q := url.Values{}
			for k, v := range params {
				q.Set(k, v)
			}
			target = path + "?" + q.Encode()
		}
		attrs["hx-get"] = target
		return attrs
	}

	switch method {
	case http.MethodPost:
		attrs["hx-post"] = path
	case http.MethodPut:
		attrs["hx-put"] = path
	case http.MethodPatch:
		attrs["hx-patch"] = path
	case http.MethodDelete:
		attrs["hx-delete"] = path
	}
	if len(params) > 0 {
		data, _ := json.Marshal(params)
		attrs["hx-vals"] = string(data)
	}
	return attrs
}

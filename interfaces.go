package hxstore

import "net/http"

// HXComponent is what the registry routes requests to.
//
// HXPrefix returns the unique URL prefix for this component.
// HXServeHTTP handles all HTTP requests under that prefix.
//
// *Component implements it; adapters and tests can supply their own.
type HXComponent interface {
	HXPrefix() string
	HXServeHTTP(w http.ResponseWriter, r *http.Request)
}

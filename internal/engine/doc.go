// Package engine contains the hunt logic for keyhunt. Pipeline decides whether
// a piece of text carries a live secret; Driver pages through search providers
// and feeds every new result through the Pipeline until a secret is found or
// the providers run dry. This package is internal; external consumers should
// use the facade in pkg/core.
package engine

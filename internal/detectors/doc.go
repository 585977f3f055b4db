// Package detectors finds candidate API secrets in free text and scores how
// random they look. Detection is pure: nothing here performs I/O.
package detectors

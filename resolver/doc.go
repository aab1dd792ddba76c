// Package resolver locates versioned toolchain installations.
//
// Explicitly configured directories always win over discovery. When none are
// usable the resolver scans well-known installation roots for directories named
// after a major.minor version and picks the closest match to the requested
// version: exact, then same major with the highest minor, then the nearest newer
// major, then the newest installation overall.
//
// The resolver never returns an error. A miss is reported as absent and callers
// fall back to the bare executable on PATH.
package resolver

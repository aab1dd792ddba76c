//go:build !windows

package resolver

// StandardRoots returns no roots: there is no conventional install location
// outside Windows. Use WithRoots to add some.
func StandardRoots() []string {
	return nil
}

//go:build linux && unstablegen

package platform

// Poll waits for events.
//unstable:api feature:"poll"
func Poll() error {
	return nil
}

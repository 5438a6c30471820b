//go:build unstablegen

package example

import "strings"

// Greeting opens every announcement.
const Greeting = "hello"

// Shout upper-cases s and adds an exclamation mark.
//unstable:api feature:"shout" issue:"#1"
func Shout(s string) string {
	return strings.ToUpper(s) + "!"
}

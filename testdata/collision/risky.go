//go:build unstablegen

package risky

// RiskyFunction does something really risky!
//unstable:api feature:"function"
func RiskyFunction() {}

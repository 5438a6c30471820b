//go:build unstablegen

package risky

// RiskyFunction does something really risky!
//unstable:api feature:"risky-function" issue:"#123"
func RiskyFunction() int {
	return riskyConstant
}

const riskyConstant = 42

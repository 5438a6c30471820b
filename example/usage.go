package example

// Announce greets name loudly.
func Announce(name string) string {
	return shout(Greeting + ", " + name)
}

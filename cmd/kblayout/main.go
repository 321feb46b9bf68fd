// Command kblayout prints which character every physical key produces under
// the active keyboard layout, and follows layout changes.
package main

func main() {
	Execute()
}

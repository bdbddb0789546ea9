// Command pagewizard runs the content page wizard in a terminal or serves it to a browser.
package main

func main() {
	Execute()
}

// mslogs-send posts a single log record to the logs service. It is meant for
// checking connectivity and for replaying captured records by hand.
package main

func main() {
	Execute()
}

// Command arenactl drives a fixed-size arena allocator from the command line.
package main

func main() {
	execute()
}

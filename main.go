package main

import "promote-social.com/promote-social/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/nabhcare/nabh-backend/cmd"

func main() {
	cmd.Execute()
}

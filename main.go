package main

import "github.com/StinkyLord/horizon-pool/cmd"

func main() {
	cmd.Execute()
}

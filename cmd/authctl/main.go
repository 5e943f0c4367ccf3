package main

import "github.com/jrsteele09/go-auth-client/cmd/authctl/cmd"

func main() {
	cmd.Execute()
}

package main

import "github/chapool/multichain-wallet/cmd"

func main() {
	cmd.Execute()
}

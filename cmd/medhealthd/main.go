package main

import "github.com/medhealth/medhealthd/cmd/medhealthd/cmd"

func main() {
	cmd.Execute()
}

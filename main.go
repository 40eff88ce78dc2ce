package main

import (
	_ "embed"

	"github.com/mekstation/vault-sync-service/cmd"
)

//go:embed config/config.yaml
var c string

func main() {
	cmd.Execute(c)
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/valkyrdb/cmd/valkyr/cmd"
)

func main() {
	cmd.Execute()
}

package main

import "github.com/imagewatch/lineage-exporter/pkg/cli"

func main() {
	cli.Execute()
}

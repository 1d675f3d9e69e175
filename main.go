package main

import (
	"github.com/mojtabanasehzadeh/music-distribution-service/cmd"
)

func main() {
	cmd.Execute()
}

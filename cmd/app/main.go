package main

import (
	"github.com/Devensh22345/channel-adder/internal/app"
)

func main() {
	app.New().Run()
}

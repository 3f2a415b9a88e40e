package main

import (
	"os"

	"github.com/djarek/fastbeast/app"
	"github.com/djarek/fastbeast/config"
	"github.com/djarek/fastbeast/core/logx"
)

func main() {
	cfg, err := config.New(os.Args[1:])
	if err != nil {
		logx.Fatalf("config: %v", err)
	}

	app.New(cfg).Run()
}

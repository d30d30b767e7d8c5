package main

import (
	"go.uber.org/fx"

	"github.com/tablewise/tablewise/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}

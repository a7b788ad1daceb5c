package main

import (
	"context"

	"github.com/perfworkshop/workshop/cmd/state"
	"github.com/perfworkshop/workshop/internal/cmd"
)

func main() {
	gs := state.NewGlobalState(context.Background())
	cmd.ExecuteWithGlobalState(gs)
}

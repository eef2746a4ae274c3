package main

import (
	"context"
	"fmt"
	"go/format"
	"log"
	"os"
	"time"

	"github.com/delaneyj/signalflow/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	arityKey  = "arity"
	outputKey = "out"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate the fixed-arity Map wrappers for the signal package",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  arityKey,
				Usage: "Largest MapN wrapper to generate",
				Value: 8,
			},
			&cli.StringFlag{
				Name:  outputKey,
				Usage: "File to write",
				Value: "signal/map_gen.go",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for signal maps started !")
	defer func() {
		log.Printf("Codegen for signal maps finished in %v", time.Since(start))
	}()

	arity := int(cmd.Uint(arityKey))
	if arity < 2 {
		return fmt.Errorf("arity must be at least 2, got %d", arity)
	}
	log.Printf("Arity: %d", arity)

	contents, err := format.Source([]byte(templates.MapGen(arity)))
	if err != nil {
		return fmt.Errorf("format generated code: %w", err)
	}
	return os.WriteFile(cmd.String(outputKey), contents, 0644)
}

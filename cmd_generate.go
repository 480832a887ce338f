package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/samuelfneumann/gridtransfer/gridmap"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

// Map generation flags
var (
	rows, cols    int
	start, goal   string
	blocked, pits int
	latex         bool
)

func addGridFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&rows, "rows", 5, "number of rows")
	flags.IntVar(&cols, "cols", 5, "number of columns")
	flags.StringVar(&start, "start", "", "fixed start cell as row,col")
	flags.StringVar(&goal, "goal", "", "fixed goal cell as row,col")
	flags.IntVar(&blocked, "blocked", 0, "number of blocked cells")
	flags.IntVar(&pits, "pits", 0, "number of pits")
	flags.BoolVar(&latex, "latex", false, "print placements as LaTeX rows")
}

// parseCoord parses a "row,col" cell. An empty string gives nil.
func parseCoord(s string) (*gridmap.Coord, error) {
	if s == "" {
		return nil, nil
	}

	var c gridmap.Coord
	if _, err := fmt.Sscanf(s, "%d,%d", &c.Row, &c.Col); err != nil {
		return nil, fmt.Errorf("parseCoord: %q is not of the form row,col",
			s)
	}
	return &c, nil
}

func gridParams() (gridmap.Params, error) {
	s, err := parseCoord(start)
	if err != nil {
		return gridmap.Params{}, err
	}
	g, err := parseCoord(goal)
	if err != nil {
		return gridmap.Params{}, err
	}

	return gridmap.Params{
		Rows:    rows,
		Cols:    cols,
		Start:   s,
		Goal:    g,
		Blocked: blocked,
		Pits:    pits,
	}, nil
}

// generatorSeed returns the --seed flag if it was set, and otherwise a
// seed drawn from the clock. The seed is logged so that maps can be
// regenerated.
func generatorSeed(cmd *cobra.Command) uint64 {
	s := resolveSeed(cmd.Flags().Changed("seed"), seed, time.Now)
	log.Printf("Generating maps with seed %d", s)
	return s
}

func resolveSeed(set bool, flagSeed uint64, now func() time.Time) uint64 {
	if set {
		return flagSeed
	}
	return uint64(now().UnixNano())
}

func printPlacement(i int, p gridmap.Placement) {
	if latex {
		fmt.Printf("%d & %v\n", i, p.LaTeX())
		return
	}
	fmt.Printf("%d: start %v  goal %v\n", i, p.Start, p.Goal)
}

// GenerateCommand returns the command generating a single random map
func GenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <path>",
		Short: "Generate a random map file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := gridParams()
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(generatorSeed(cmd)))
			g, placement, err := gridmap.Generate(args[0], p, rng)
			if err != nil {
				return err
			}

			printPlacement(0, placement)
			return g.Print(os.Stdout, colour)
		},
	}
	addGridFlags(cmd)
	return cmd
}

// GenerateManyCommand returns the command generating a directory of
// random maps
func GenerateManyCommand() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "generate-many <dir>",
		Short: "Generate a directory of random map files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := gridParams()
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(generatorSeed(cmd)))
			placements, err := gridmap.GenerateMany(args[0], n, p, rng)
			if err != nil {
				return err
			}

			for i, placement := range placements {
				printPlacement(i, placement)
			}
			log.Printf("Wrote %d maps to %v", len(placements),
				filepath.Clean(args[0]))
			return nil
		},
	}
	addGridFlags(cmd)
	cmd.Flags().IntVarP(&n, "num", "n", 10, "number of maps")
	return cmd
}

// ShowCommand returns the command printing and rendering a map file
func ShowCommand() *cobra.Command {
	var png string

	cmd := &cobra.Command{
		Use:   "show <map>",
		Short: "Print a map file and optionally render it as a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := gridmap.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := g.Print(os.Stdout, colour); err != nil {
				return err
			}

			if png != "" {
				return g.RenderPNG(png)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&png, "png", "", "render the map to this PNG file")
	return cmd
}

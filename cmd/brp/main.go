// Command brp builds and queries a bucketed-random-projection nearest
// neighbor index backed by a local SQLite file.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	brp "github.com/STSCnam/bucketed-random-projection-model"
)

var (
	dbPath         string
	numHyperplanes int
	bucketSize     float64
	seed           int64
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "brp",
	Short: "CLI tool for bucketed random projection nearest-neighbor search",
	Long:  `A command-line interface for building and querying a bucketed random projection (LSH) index over SQLite.`,
}

var initIndexCmd = &cobra.Command{
	Use:   "init-index <dataset.json>",
	Short: "Populate a fresh index from a JSON dataset and build it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		records, err := loadDatasetFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}
		if len(records) == 0 {
			return fmt.Errorf("dataset %q is empty", args[0])
		}

		cfg := newConfig()
		model, err := brp.Open(ctx, cfg, true)
		if err != nil {
			return fmt.Errorf("failed to open index: %w", err)
		}
		defer model.Close()

		for _, r := range records {
			if _, err := model.Populate(ctx, r.Raw, r.Embedding); err != nil {
				return fmt.Errorf("failed to populate %q: %w", r.Raw, err)
			}
		}

		if err := model.Build(ctx); err != nil {
			return fmt.Errorf("failed to build index: %w", err)
		}

		fmt.Printf("index built at %s: %d points, %d hyperplanes, bucket size %g\n",
			dbPath, len(records), numHyperplanes, bucketSize)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <k> <identifier>",
	Short: "Find the k nearest neighbors of a previously populated point, by its raw identifier",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		k, err := parseK(args[0])
		if err != nil {
			return err
		}
		identifier := args[1]

		cfg := newConfig()
		model, err := brp.Load(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to load index: %w", err)
		}
		defer model.Close()

		point, err := model.FetchData(ctx, identifier)
		if err != nil {
			return fmt.Errorf("lookup failed: %w", err)
		}
		if point == nil {
			return fmt.Errorf("no data found with identifier %q: %w", identifier, brp.ErrNotFound)
		}

		neighbors, err := model.KNN(ctx, point.Embedding, k)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		if len(neighbors) == 0 {
			fmt.Println("no neighbors found")
			return nil
		}
		for _, nb := range neighbors {
			fmt.Printf("%s\tdistance=%g\n", nb.Data.Raw, nb.Distance)
		}
		fmt.Printf("%d neighbors found\n", len(neighbors))
		return nil
	},
}

var generateDatasetCmd = &cobra.Command{
	Use:   "generate-dataset <output.json>",
	Short: "Generate a clustered random dataset as a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("n")
		dims, _ := cmd.Flags().GetInt("dims")
		low, _ := cmd.Flags().GetFloat64("low")
		high, _ := cmd.Flags().GetFloat64("high")
		clusters, _ := cmd.Flags().GetInt("clusters")

		if err := brp.GenerateDataset(args[0], n, dims, low, high, clusters, seed); err != nil {
			return fmt.Errorf("failed to generate dataset: %w", err)
		}
		fmt.Printf("dataset written to %s: %d points, %d dims, %d clusters\n", args[0], n, dims, clusters)
		return nil
	},
}

func newConfig() brp.Config {
	cfg := brp.DefaultConfig(dbPath)
	cfg.NumHyperplanes = numHyperplanes
	cfg.BucketSize = bucketSize
	cfg.Seed = seed

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "brp.db", "Database file path")
	rootCmd.PersistentFlags().IntVarP(&numHyperplanes, "hyperplanes", "H", 1, "Number of random hyperplanes")
	rootCmd.PersistentFlags().Float64VarP(&bucketSize, "bucket-size", "r", 1.0, "Bucket width")
	rootCmd.PersistentFlags().Int64VarP(&seed, "seed", "s", 1, "Random seed")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	generateDatasetCmd.Flags().Int("n", 1000, "Number of points to generate")
	generateDatasetCmd.Flags().Int("dims", 8, "Embedding dimension")
	generateDatasetCmd.Flags().Float64("low", -5.0, "Lower bound of each axis")
	generateDatasetCmd.Flags().Float64("high", 5.0, "Upper bound of each axis")
	generateDatasetCmd.Flags().Int("clusters", 5, "Number of Gaussian clusters")

	rootCmd.AddCommand(
		initIndexCmd,
		queryCmd,
		generateDatasetCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

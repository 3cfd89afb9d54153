package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vexdb/vex/pkg/core"
	"github.com/vexdb/vex/pkg/script"
)

var (
	configPath string
	dbPath     string
	dimensions int
	logLevel   string

	cfg    fileConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vex",
	Short: "CLI for the vex vector engine",
	Long:  `Manage a SQLite-backed vector store and run boundary scripts against it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = loadConfig(configPath); err != nil {
			return err
		}
		flags := cmd.Root().PersistentFlags()
		if flags.Changed("db") || cfg.Path == "" {
			cfg.Path = dbPath
		}
		if flags.Changed("dimensions") {
			cfg.Dimensions = dimensions
		}
		if flags.Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if logger, err = newLogger(cfg.LogLevel); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new vector database",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("Vector database initialized at %s", cfg.Path)
		if cfg.Dimensions > 0 {
			fmt.Printf(" with %d dimensions", cfg.Dimensions)
		}
		fmt.Println()
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update an embedding",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		content, _ := cmd.Flags().GetString("content")
		vectorStr, _ := cmd.Flags().GetString("vector")

		vector, err := parseVector(vectorStr)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		emb := &core.Embedding{ID: id, Vector: vector, Content: content}
		if err := store.Upsert(context.Background(), emb); err != nil {
			return fmt.Errorf("failed to add embedding: %w", err)
		}

		fmt.Printf("Embedding %q added\n", emb.ID)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for similar vectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		vectorStr, _ := cmd.Flags().GetString("vector")
		k, _ := cmd.Flags().GetInt("top-k")
		nprobes, _ := cmd.Flags().GetInt("nprobes")
		useIndex, _ := cmd.Flags().GetBool("use-index")
		distance, _ := cmd.Flags().GetString("distance")
		outputJSON, _ := cmd.Flags().GetBool("json")

		key, err := parseVector(vectorStr)
		if err != nil {
			return err
		}
		if distance == "" {
			distance = cfg.DistanceType
		}
		dt, err := core.ParseDistanceType(distance)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		column := cfg.Column
		if column == "" {
			column = core.DefaultColumn
		}
		q := &core.SearchQuery{
			Column:       column,
			Key:          key,
			TopK:         k,
			NProbes:      nprobes,
			DistanceType: dt,
			UseIndex:     useIndex,
		}
		results, err := store.Search(context.Background(), q)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if outputJSON {
			data, _ := json.MarshalIndent(results, "", "  ")
			fmt.Println(string(data))
			return nil
		}
		fmt.Printf("Found %d results:\n", len(results))
		for i, r := range results {
			fmt.Printf("%d. %s (score: %.4f)\n", i+1, r.ID, r.Score)
		}
		return nil
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build an IVF index over stored vectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := &core.IndexParams{}
		for flag, target := range map[string]**int32{
			"partitions":     &params.NumPartitions,
			"sub-vectors":    &params.NumSubVectors,
			"bits":           &params.NumBits,
			"max-iterations": &params.MaxIterations,
			"sample-rate":    &params.SampleRate,
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetInt32(flag)
				*target = &v
			}
		}
		metric, _ := cmd.Flags().GetString("metric")
		dt, err := core.ParseDistanceType(metric)
		if err != nil {
			return err
		}
		params.MetricType = dt

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.BuildIndex(context.Background(), params); err != nil {
			return fmt.Errorf("index build failed: %w", err)
		}
		fmt.Println("Index built")
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a boundary script against the store",
	Long: `Evaluates an interpreted Go script with access to the "vex/hosted" and
"vex/boundary" packages. A hosted exception thrown by a boundary call
fails the command with the exception's class and message.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		host, err := script.NewHost(store, logger)
		if err != nil {
			return err
		}

		logger.Info("running script",
			zap.String("file", args[0]),
			zap.String("session", host.Session()))
		result, err := host.Run(cmd.Context(), string(src))
		if err != nil {
			return err
		}
		if result != nil {
			fmt.Println(result)
		}
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored embeddings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Count(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

func parseVector(str string) ([]float32, error) {
	if str == "" {
		return nil, fmt.Errorf("vector is required")
	}
	parts := strings.Split(str, ",")
	vector := make([]float32, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", part, err)
		}
		vector = append(vector, float32(val))
	}
	return vector, nil
}

func openStore() (*core.VectorStore, error) {
	sc := core.DefaultConfig()
	sc.Path = cfg.Path
	sc.VectorDim = cfg.Dimensions
	if cfg.Column != "" {
		sc.Column = cfg.Column
	}
	sc.Logger = storeLogger(logger)

	store, err := core.NewWithConfig(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := store.Init(context.Background()); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return store, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (yaml)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "vex.db", "Database file path")
	rootCmd.PersistentFlags().IntVarP(&dimensions, "dimensions", "n", 0, "Vector dimensions (0 for auto)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug/info/warn/error)")

	addCmd.Flags().String("id", "", "Embedding id (generated when empty)")
	addCmd.Flags().String("content", "", "Embedding content")
	addCmd.Flags().String("vector", "", "Vector values (comma-separated)")
	addCmd.MarkFlagRequired("vector")

	searchCmd.Flags().String("vector", "", "Query vector (comma-separated)")
	searchCmd.Flags().Int("top-k", 10, "Number of results")
	searchCmd.Flags().Int("nprobes", 0, "Partitions to probe (0 for default)")
	searchCmd.Flags().Bool("use-index", false, "Search through the IVF index if built")
	searchCmd.Flags().String("distance", "", "Distance type (l2/cosine/dot)")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
	searchCmd.MarkFlagRequired("vector")

	indexCmd.Flags().String("metric", "l2", "Metric type (l2/cosine/dot)")
	indexCmd.Flags().Int32("partitions", 0, "IVF partition count")
	indexCmd.Flags().Int32("sub-vectors", 0, "PQ sub-vector count (0 disables PQ)")
	indexCmd.Flags().Int32("bits", 0, "PQ bits per code")
	indexCmd.Flags().Int32("max-iterations", 0, "k-means iteration cap")
	indexCmd.Flags().Int32("sample-rate", 0, "Training samples per partition")

	rootCmd.AddCommand(initCmd, addCmd, searchCmd, indexCmd, runCmd, countCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

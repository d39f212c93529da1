// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/drug-moa-explorer/internal/cluster"
	"github.com/jdfalk/drug-moa-explorer/internal/config"
	"github.com/jdfalk/drug-moa-explorer/internal/dataset"
	"github.com/jdfalk/drug-moa-explorer/internal/pipeline"
	"github.com/jdfalk/drug-moa-explorer/internal/report"
)

var cfgFile string
var sourceFile string
var referenceFile string
var outputDir string
var similarityThreshold int
var fuzzyWorkers int
var pathwayDir string
var moaFile string
var resultsDir string
var pcaComponents int
var maxClusters int
var fixedClusters int
var noProgress bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drug-moa-explorer",
	Short: "Match drug names against a reference catalogue and explore mechanisms",
	Long: `Drug MoA Explorer reconciles messy drug names against a reference
catalogue using exact and fuzzy matching, then clusters the matched drugs
by pathway enrichment profile and renders an interactive report.`,
}

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run the drug name matching pipeline",
	Long: `Run the full matching pipeline: exact matching on normalized names
and synonyms, fuzzy matching on the remainder, pattern analysis of what is
left, and a combined output table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.AppConfig.SourceFile == "" {
			return fmt.Errorf("source file not specified")
		}
		if config.AppConfig.ReferenceFile == "" {
			return fmt.Errorf("reference file not specified")
		}

		fmt.Printf("Source table: %s\n", config.AppConfig.SourceFile)
		fmt.Printf("Reference table: %s\n", config.AppConfig.ReferenceFile)
		fmt.Printf("Output directory: %s\n", config.AppConfig.OutputDir)

		_, err := pipeline.Run(pipeline.Options{
			SourcePath:    config.AppConfig.SourceFile,
			ReferencePath: config.AppConfig.ReferenceFile,
			OutputDir:     config.AppConfig.OutputDir,
			Threshold:     config.AppConfig.SimilarityThreshold,
			Workers:       config.AppConfig.FuzzyWorkers,
			ShowProgress:  !noProgress,
		})
		if err != nil {
			return fmt.Errorf("matching pipeline failed: %w", err)
		}
		return nil
	},
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Cluster drugs by pathway enrichment profile",
	Long: `Assemble the drugs x pathways enrichment matrix from per-drug CSVs,
reduce it with PCA, cluster the drugs with k-means, and write the clustering
results, cluster details, and mechanism-of-action distribution.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.AppConfig.PathwayDir == "" {
			return fmt.Errorf("pathway directory not specified")
		}

		if err := os.MkdirAll(config.AppConfig.ResultsDir, 0755); err != nil {
			return fmt.Errorf("creating results directory: %w", err)
		}

		// Load the enrichment matrix
		fmt.Printf("Loading pathway enrichment data from: %s\n", config.AppConfig.PathwayDir)
		var progress func()
		if !noProgress {
			bar := progressbar.Default(-1, "loading enrichment files")
			progress = func() { _ = bar.Add(1) }
		}
		pm, err := dataset.LoadPathwayMatrix(config.AppConfig.PathwayDir, progress)
		if err != nil {
			return fmt.Errorf("loading pathway matrix: %w", err)
		}
		fmt.Printf("\nLoaded %d drugs x %d pathways\n", len(pm.Drugs), len(pm.Pathways))

		// Optional mechanism annotations. A missing or unreadable table is
		// a warning; the clustering itself does not need it.
		var moa map[string]string
		if config.AppConfig.MoAFile != "" {
			moa, err = dataset.LoadMoATable(config.AppConfig.MoAFile)
			if err != nil {
				fmt.Printf("Warning: could not load MoA table: %v\n", err)
				moa = nil
			} else {
				fmt.Printf("Loaded mechanism annotations for %d drugs\n", len(moa))
			}
		}

		// Dimensionality reduction
		fmt.Printf("Running PCA with up to %d components...\n", config.AppConfig.PCAComponents)
		scores, pca, err := cluster.PerformPCA(pm.Data, config.AppConfig.PCAComponents)
		if err != nil {
			return fmt.Errorf("PCA failed: %w", err)
		}
		fmt.Printf("Kept %d components, explained variance ratios: ", pca.Components)
		for i, r := range pca.ExplainedVarianceRatio {
			if i > 0 {
				fmt.Printf(", ")
			}
			fmt.Printf("%.3f", r)
		}
		fmt.Println()

		// Clustering
		k := fixedClusters
		if k <= 0 {
			fmt.Println("Searching for the optimal cluster count...")
			k = cluster.FindOptimalK(scores, config.AppConfig.MaxClusters)
		}
		fmt.Printf("Clustering into %d clusters\n", k)

		result, err := cluster.KMeans(scores, k, 0, cluster.DefaultSeed)
		if err != nil {
			return fmt.Errorf("k-means failed: %w", err)
		}

		metrics := cluster.Evaluate(scores, result.Labels)
		fmt.Printf("Silhouette: %.3f  Calinski-Harabasz: %.1f  Davies-Bouldin: %.3f\n",
			metrics.Silhouette, metrics.CalinskiHarabasz, metrics.DaviesBouldin)

		info := cluster.AnalyzeClusters(pm, result.Labels)
		for c := 0; c < k; c++ {
			ci := info[c]
			fmt.Printf("\nCluster %d: %d drugs\n", c, ci.Size)
			for _, p := range ci.TopPathways {
				fmt.Printf("  %s (mean NES %.2f)\n", p.Name, p.Mean)
			}
		}

		// Persist results
		clustersPath := filepath.Join(config.AppConfig.ResultsDir, "clustering_results.csv")
		if err := dataset.WriteClusteringResults(clustersPath, pm.Drugs, scores, result.Labels, moa); err != nil {
			return fmt.Errorf("writing clustering results: %w", err)
		}

		detailsPath := filepath.Join(config.AppConfig.ResultsDir, "cluster_details.csv")
		sizes := cluster.Sizes(result.Labels, k)
		if err := dataset.WriteClusterDetails(detailsPath, sizes,
			metrics.Silhouette, metrics.CalinskiHarabasz, metrics.DaviesBouldin); err != nil {
			return fmt.Errorf("writing cluster details: %w", err)
		}

		fmt.Printf("\nFiles created:\n")
		fmt.Printf("- %s\n", clustersPath)
		fmt.Printf("- %s\n", detailsPath)

		if moa != nil {
			dist := cluster.MoADistribution(pm.Drugs, result.Labels, moa, k, 3)
			distPath := filepath.Join(config.AppConfig.ResultsDir, "moa_cluster_distribution.csv")
			if err := dataset.WriteMoADistribution(distPath, k, dist); err != nil {
				return fmt.Errorf("writing MoA distribution: %w", err)
			}
			fmt.Printf("- %s\n", distPath)
		}

		return nil
	},
}

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the interactive clustering report",
	Long: `Read the clustering results written by the analyze command and
render them as a self-contained HTML page with an interactive 3D scatter
plot and mechanism-of-action highlighting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resultsDir := config.AppConfig.ResultsDir
		if cmd.Flags().Changed("results") {
			resultsDir, _ = cmd.Flags().GetString("results")
		}

		clustersPath := filepath.Join(resultsDir, "clustering_results.csv")
		rows, err := dataset.LoadClusteringResults(clustersPath)
		if err != nil {
			return fmt.Errorf("loading clustering results (run analyze first): %w", err)
		}

		data := &report.Data{}
		numClusters := 0
		for _, row := range rows {
			drug := report.Drug{Name: row.Drug, Cluster: row.Cluster, MoA: row.MoA}
			if len(row.PCs) > 0 {
				drug.X = row.PCs[0]
			}
			if len(row.PCs) > 1 {
				drug.Y = row.PCs[1]
			}
			if len(row.PCs) > 2 {
				drug.Z = row.PCs[2]
			}
			data.Drugs = append(data.Drugs, drug)
			if row.Cluster+1 > numClusters {
				numClusters = row.Cluster + 1
			}
		}
		data.NumClusters = numClusters

		// Cluster details are optional; the plot renders without them.
		detailsPath := filepath.Join(resultsDir, "cluster_details.csv")
		if sizes, metrics, err := dataset.LoadClusterDetails(detailsPath); err == nil {
			data.ClusterSizes = sizes
			data.Metrics = metrics
		} else {
			fmt.Printf("Warning: could not load cluster details: %v\n", err)
		}

		outPath := config.AppConfig.ReportFile
		if err := report.Generate(outPath, data); err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}

		fmt.Printf("Report written to: %s (%d drugs, %d clusters)\n",
			outPath, len(data.Drugs), data.NumClusters)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.drug-moa-explorer.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bars")

	matchCmd.Flags().StringVar(&sourceFile, "source", "", "source table with GENERIC_NAME and SYNONYMS columns")
	matchCmd.Flags().StringVar(&referenceFile, "reference", "", "reference catalogue (tab-separated repurposing table)")
	matchCmd.Flags().StringVar(&outputDir, "output", "output", "directory for intermediate and final outputs")
	matchCmd.Flags().IntVar(&similarityThreshold, "threshold", 80, "minimum token sort ratio to accept a fuzzy match")
	matchCmd.Flags().IntVar(&fuzzyWorkers, "workers", 4, "number of concurrent fuzzy matching workers")

	viper.BindPFlag("source_file", matchCmd.Flags().Lookup("source"))
	viper.BindPFlag("reference_file", matchCmd.Flags().Lookup("reference"))
	viper.BindPFlag("output_dir", matchCmd.Flags().Lookup("output"))
	viper.BindPFlag("similarity_threshold", matchCmd.Flags().Lookup("threshold"))
	viper.BindPFlag("fuzzy_workers", matchCmd.Flags().Lookup("workers"))

	analyzeCmd.Flags().StringVar(&pathwayDir, "pathways", "", "directory of per-drug enrichment CSVs (Term and NES columns)")
	analyzeCmd.Flags().StringVar(&moaFile, "moa", "", "optional drug to mechanism-of-action table")
	analyzeCmd.Flags().StringVar(&resultsDir, "results", "results", "directory for clustering outputs")
	analyzeCmd.Flags().IntVar(&pcaComponents, "components", 3, "maximum number of principal components to keep")
	analyzeCmd.Flags().IntVar(&maxClusters, "max-clusters", 10, "upper bound when searching for the cluster count")
	analyzeCmd.Flags().IntVar(&fixedClusters, "clusters", 0, "fixed cluster count (0 = find automatically)")

	viper.BindPFlag("pathway_dir", analyzeCmd.Flags().Lookup("pathways"))
	viper.BindPFlag("moa_file", analyzeCmd.Flags().Lookup("moa"))
	viper.BindPFlag("results_dir", analyzeCmd.Flags().Lookup("results"))
	viper.BindPFlag("pca_components", analyzeCmd.Flags().Lookup("components"))
	viper.BindPFlag("max_clusters", analyzeCmd.Flags().Lookup("max-clusters"))

	reportCmd.Flags().String("results", "", "directory holding the analyze outputs (defaults to results_dir)")
	reportCmd.Flags().String("out", "drug_clustering_report.html", "path for the rendered HTML report")
	viper.BindPFlag("report_file", reportCmd.Flags().Lookup("out"))

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".drug-moa-explorer")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()
}

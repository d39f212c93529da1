// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	SourceFile          string
	ReferenceFile       string
	OutputDir           string
	SimilarityThreshold int
	FuzzyWorkers        int
	PathwayDir          string
	MoAFile             string
	ResultsDir          string
	ReportFile          string
	PCAComponents       int
	MaxClusters         int
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	// Set defaults
	viper.SetDefault("output_dir", "output")
	viper.SetDefault("similarity_threshold", 80)
	viper.SetDefault("fuzzy_workers", 4)
	viper.SetDefault("results_dir", "results")
	viper.SetDefault("report_file", "drug_clustering_report.html")
	viper.SetDefault("pca_components", 3)
	viper.SetDefault("max_clusters", 10)

	AppConfig = Config{
		SourceFile:          viper.GetString("source_file"),
		ReferenceFile:       viper.GetString("reference_file"),
		OutputDir:           viper.GetString("output_dir"),
		SimilarityThreshold: viper.GetInt("similarity_threshold"),
		FuzzyWorkers:        viper.GetInt("fuzzy_workers"),
		PathwayDir:          viper.GetString("pathway_dir"),
		MoAFile:             viper.GetString("moa_file"),
		ResultsDir:          viper.GetString("results_dir"),
		ReportFile:          viper.GetString("report_file"),
		PCAComponents:       viper.GetInt("pca_components"),
		MaxClusters:         viper.GetInt("max_clusters"),
	}

	// Clamp obviously broken values back to the defaults
	if AppConfig.SimilarityThreshold <= 0 || AppConfig.SimilarityThreshold > 100 {
		AppConfig.SimilarityThreshold = 80
	}
	if AppConfig.FuzzyWorkers <= 0 {
		AppConfig.FuzzyWorkers = 4
	}
	if AppConfig.PCAComponents <= 0 {
		AppConfig.PCAComponents = 3
	}
	if AppConfig.MaxClusters < 2 {
		AppConfig.MaxClusters = 10
	}
}

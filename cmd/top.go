package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pkgstats/archive"
	"pkgstats/bench"
	"pkgstats/bucket"
	"pkgstats/cache"
	"pkgstats/constants"
	"pkgstats/contents"
	"pkgstats/mirror"
	"pkgstats/model"
	"pkgstats/ranking"
)

var (
	topUseCache    bool
	topSaveLocally bool
	topS3Bucket    string
	topS3Region    string
	topS3Endpoint  string
	topChunkSize   int
	topWorkers     int
	topN           int
	topSequential  bool
	topRepeats     int
)

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().BoolVar(&topUseCache, "use-cache", false, "read a cached Contents file instead of downloading")
	topCmd.Flags().BoolVar(&topSaveLocally, "save-file-locally", false, "save the downloaded Contents file for future use")
	topCmd.Flags().StringVar(&topS3Bucket, "s3-bucket", "", "fetch the Contents file from this S3 bucket instead of the mirror")
	topCmd.Flags().StringVar(&topS3Region, "s3-region", "", "region of the S3 bucket")
	topCmd.Flags().StringVar(&topS3Endpoint, "s3-endpoint", "", "S3 endpoint override, for local stacks")
	topCmd.Flags().IntVar(&topChunkSize, "chunk-size", constants.DefaultChunkSize, "lines per aggregation chunk")
	topCmd.Flags().IntVar(&topWorkers, "workers", constants.DefaultWorkers, "concurrent aggregation workers")
	topCmd.Flags().IntVar(&topN, "top", constants.DefaultTopN, "number of packages to report")
	topCmd.Flags().BoolVar(&topSequential, "sequential", false, "aggregate in a single pass without workers")
	topCmd.Flags().IntVar(&topRepeats, "repeats", 1, "run the pipeline this many times and log timing stats")

	topCmd.MarkFlagsMutuallyExclusive("use-cache", "save-file-locally")
	topCmd.MarkFlagsMutuallyExclusive("use-cache", "s3-bucket")
}

var topCmd = &cobra.Command{
	Use:   "top <architecture>",
	Short: "Report the packages with the most indexed files",
	Long:  `Report the top packages with the most files for an architecture (e.g. amd64, arm64, mips).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTop(cmd, args[0]); err != nil {
			logger.Error(err.Error())
			if errors.Is(err, cache.ErrMiss) {
				logger.Error("run `pkgstats top --save-file-locally` or `pkgstats fetch` first")
				os.Exit(constants.ExitCacheMiss)
			}
			os.Exit(constants.ExitFailure)
		}
	},
}

func runTop(cmd *cobra.Command, arch string) error {
	src, err := resolveSource(cmd, arch)
	if err != nil {
		return err
	}

	run := func() error {
		rd, err := src.Open()
		if err != nil {
			return err
		}
		defer rd.Close()

		parser := contents.NewParser(logger)
		parser.ChunkSize = topChunkSize
		parser.Workers = topWorkers

		var counts model.PackageCounts
		if topSequential {
			counts, err = parser.Count(rd)
		} else {
			counts, err = parser.CountParallel(rd)
		}
		if err != nil {
			return err
		}
		logger.Info("parsed Contents index", "packages", humanize.Comma(int64(len(counts))))

		printRanked(ranking.Top(counts, topN))
		return nil
	}

	stats, err := bench.Measure(topRepeats, run)
	if err != nil {
		return err
	}
	if topRepeats > 1 {
		logger.Info("timing",
			"runs", stats.Runs,
			"average", stats.Average,
			"min", stats.Min,
			"max", stats.Max)
	}
	return nil
}

// resolveSource picks where the compressed archive comes from: the local
// cache, an S3 bucket, or the HTTP mirror.
func resolveSource(cmd *cobra.Command, arch string) (archive.Source, error) {
	local := cache.Path(".", arch)

	switch {
	case topUseCache:
		if err := cache.Stat(local); err != nil {
			return archive.Source{}, err
		}
		logger.Info("reading cached Contents file", "path", local)
		return archive.FromFile(local), nil

	case topS3Bucket != "":
		cfg := bucket.Config{Region: topS3Region, Bucket: topS3Bucket, Endpoint: topS3Endpoint}
		logger.Info("fetching Contents file from S3", "bucket", topS3Bucket)
		content, err := bucket.Fetch(cfg, arch)
		if err != nil {
			return archive.Source{}, err
		}
		logger.Info("fetched Contents file", "size", humanize.Bytes(uint64(len(content))))
		return archive.FromBytes(content), nil

	default:
		client := mirror.New(baseURL())
		logger.Info("downloading Contents file", "url", client.ContentsURL(arch))
		content, err := client.Fetch(cmd.Context(), arch)
		if err != nil {
			return archive.Source{}, err
		}
		logger.Info("downloaded Contents file", "size", humanize.Bytes(uint64(len(content))))
		if topSaveLocally {
			if err := cache.Save(local, content); err != nil {
				return archive.Source{}, err
			}
			logger.Info("saved Contents file", "path", local)
		}
		return archive.FromBytes(content), nil
	}
}

func printRanked(entries []model.Entry) {
	fmt.Printf("Top %v packages with the most files:\n", topN)
	for i, e := range entries {
		fmt.Printf("%v. %-30v %v\n", i+1, e.Package, e.Count)
	}
}

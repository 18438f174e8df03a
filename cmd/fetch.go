package cmd

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pkgstats/bucket"
	"pkgstats/cache"
	"pkgstats/constants"
	"pkgstats/mirror"
)

var (
	fetchS3Bucket   string
	fetchS3Region   string
	fetchS3Endpoint string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchS3Bucket, "s3-bucket", "", "fetch from this S3 bucket instead of the mirror")
	fetchCmd.Flags().StringVar(&fetchS3Region, "s3-region", "", "region of the S3 bucket")
	fetchCmd.Flags().StringVar(&fetchS3Endpoint, "s3-endpoint", "", "S3 endpoint override, for local stacks")
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <architecture>",
	Short: "Download the Contents file and save it to the local cache",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFetch(cmd, args[0]); err != nil {
			logger.Error(err.Error())
			os.Exit(constants.ExitFailure)
		}
	},
}

func runFetch(cmd *cobra.Command, arch string) error {
	var content []byte
	var err error

	if fetchS3Bucket != "" {
		cfg := bucket.Config{Region: fetchS3Region, Bucket: fetchS3Bucket, Endpoint: fetchS3Endpoint}
		logger.Info("fetching Contents file from S3", "bucket", fetchS3Bucket)
		content, err = bucket.Fetch(cfg, arch)
	} else {
		client := mirror.New(baseURL())
		logger.Info("downloading Contents file", "url", client.ContentsURL(arch))
		content, err = client.Fetch(cmd.Context(), arch)
	}
	if err != nil {
		return err
	}
	logger.Info("fetched Contents file", "size", humanize.Bytes(uint64(len(content))))

	local := cache.Path(".", arch)
	if err := cache.Save(local, content); err != nil {
		return err
	}
	logger.Info("saved Contents file", "path", local)
	return nil
}

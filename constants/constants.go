package constants

import "time"

// DefaultBaseURL is the mirror used when neither --base-url nor
// PACKAGE_MIRROR_URL is set.
const DefaultBaseURL = "http://ftp.uk.debian.org/debian"

// ContentsKey is the path of the Contents index under a mirror or bucket
// root, parameterized by architecture.
const ContentsKey = "dists/stable/main/Contents-%v.gz"

const DefaultChunkSize = 1000

const DefaultWorkers = 8

const DefaultTopN = 10

const FetchTimeout = 30 * time.Second

// Exit statuses at the CLI boundary.
const (
	ExitFailure   = 1
	ExitCacheMiss = 2
)

// Package contents counts, per package, how many indexed files a repository
// Contents index attributes to it. Records look like
//
//	usr/bin/foo   admin/pkga,utils/pkgb
//
// where the package list sits after the last whitespace run on the line.
package contents

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/pool"

	"pkgstats/constants"
	"pkgstats/model"
)

// Lines inside a Contents index stay short; 1 MiB leaves plenty of slack.
const maxLineBytes = 1 << 20

// Parser counts package occurrences in a decompressed Contents stream. The
// zero value is usable and falls back to the package defaults.
type Parser struct {
	Log       *log.Logger
	ChunkSize int
	Workers   int
}

func NewParser(logger *log.Logger) *Parser {
	return &Parser{
		Log:       logger,
		ChunkSize: constants.DefaultChunkSize,
		Workers:   constants.DefaultWorkers,
	}
}

// SplitLine splits a record at its last whitespace run into the file path and
// the comma-joined package list. ok is false when the line has no separator.
func SplitLine(line string) (path, packages string, ok bool) {
	trimmed := strings.TrimSpace(line)
	cut := strings.LastIndexFunc(trimmed, unicode.IsSpace)
	if cut < 0 {
		return "", "", false
	}
	_, width := utf8.DecodeRuneInString(trimmed[cut:])
	path = strings.TrimRightFunc(trimmed[:cut], unicode.IsSpace)
	return path, trimmed[cut+width:], true
}

// Count runs the sequential single-pass aggregation.
func (p *Parser) Count(r io.Reader) (model.PackageCounts, error) {
	counts := make(model.PackageCounts)
	scanner := newScanner(r)
	for scanner.Scan() {
		p.countLine(scanner.Text(), counts)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// CountParallel chunks the line stream in arrival order and aggregates the
// chunks on a bounded worker pool. Submission blocks while every worker is
// busy, so in-flight chunks never exceed the pool size. Each worker owns its
// chunk and its partial table; the calling goroutine is the only one that
// touches the merged table. The result is identical to Count for any input
// and any chunk size.
func (p *Parser) CountParallel(r io.Reader) (model.PackageCounts, error) {
	size := p.chunkSize()
	results := make(chan model.PackageCounts)
	var scanErr error

	go func() {
		defer close(results)
		workers := pool.New().WithMaxGoroutines(p.workers())
		chunk := make([]string, 0, size)
		scanner := newScanner(r)
		for scanner.Scan() {
			chunk = append(chunk, scanner.Text())
			if len(chunk) == size {
				batch := chunk
				workers.Go(func() { results <- p.countChunk(batch) })
				chunk = make([]string, 0, size)
			}
		}
		if len(chunk) > 0 {
			batch := chunk
			workers.Go(func() { results <- p.countChunk(batch) })
		}
		workers.Wait()
		scanErr = scanner.Err()
	}()

	counts := make(model.PackageCounts)
	for partial := range results {
		for name, n := range partial {
			counts[name] += n
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return counts, nil
}

func (p *Parser) countChunk(lines []string) model.PackageCounts {
	counts := make(model.PackageCounts)
	for _, line := range lines {
		p.countLine(line, counts)
	}
	return counts
}

func (p *Parser) countLine(line string, counts model.PackageCounts) {
	if strings.TrimSpace(line) == "" {
		return
	}
	_, packages, ok := SplitLine(line)
	if !ok {
		p.logger().Error("failed to parse line", "line", strings.TrimSpace(line))
		return
	}
	// A package listed twice on one line counts twice.
	for _, name := range strings.Split(packages, ",") {
		counts[name]++
	}
}

func (p *Parser) chunkSize() int {
	if p.ChunkSize > 0 {
		return p.ChunkSize
	}
	return constants.DefaultChunkSize
}

func (p *Parser) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return constants.DefaultWorkers
}

func (p *Parser) logger() *log.Logger {
	if p.Log != nil {
		return p.Log
	}
	return log.Default()
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return scanner
}

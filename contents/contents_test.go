package contents

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkgstats/model"
)

func discardParser() *Parser {
	return NewParser(log.New(io.Discard))
}

func TestSplitsAtLastWhitespaceRun(t *testing.T) {
	path, packages, ok := SplitLine("some path with spaces  pkgX")

	assert := assert.New(t)
	assert.True(ok)
	assert.Equal("some path with spaces", path)
	assert.Equal("pkgX", packages)
}

func TestSplitLineVariants(t *testing.T) {
	cases := []struct {
		line     string
		path     string
		packages string
		ok       bool
	}{
		{"usr/bin/foo  pkgA,pkgB", "usr/bin/foo", "pkgA,pkgB", true},
		{"usr/bin/foo\tadmin/pkga", "usr/bin/foo", "admin/pkga", true},
		{"  usr/bin/foo   pkgA  ", "usr/bin/foo", "pkgA", true},
		{"onlyonetoken", "", "", false},
		{"", "", "", false},
		{"   ", "", "", false},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("split %q", c.line), func(t *testing.T) {
			path, packages, ok := SplitLine(c.line)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.path, path)
			assert.Equal(t, c.packages, packages)
		})
	}
}

func TestCountsDuplicatePackagesOnOneLine(t *testing.T) {
	counts, err := discardParser().Count(strings.NewReader("usr/bin/foo  pkgA,pkgB,pkgA\n"))

	require.NoError(t, err)
	assert := assert.New(t)
	assert.Equal(2, counts["pkgA"])
	assert.Equal(1, counts["pkgB"])
	assert.Len(counts, 2)
}

func TestSkipsMalformedLines(t *testing.T) {
	input := "onlyonetoken\nusr/bin/foo  pkgA\n"
	counts, err := discardParser().Count(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, model.PackageCounts{"pkgA": 1}, counts)
}

func TestIgnoresBlankLines(t *testing.T) {
	input := "\n\nusr/bin/foo  pkgA\n   \n\n"
	counts, err := discardParser().Count(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, model.PackageCounts{"pkgA": 1}, counts)
}

func TestEmptyInputYieldsEmptyTable(t *testing.T) {
	counts, err := discardParser().Count(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, counts)

	counts, err = discardParser().CountParallel(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestCountsNamespacedPackages(t *testing.T) {
	input := "usr/bin/a  admin/foo\nusr/bin/b  admin/foo,utils/bar\n"
	counts, err := discardParser().Count(strings.NewReader(input))

	require.NoError(t, err)
	assert := assert.New(t)
	assert.Equal(2, counts["admin/foo"])
	assert.Equal(1, counts["utils/bar"])
}

func TestCountIsIdempotent(t *testing.T) {
	input := randomContents(500)
	first, err := discardParser().Count(strings.NewReader(input))
	require.NoError(t, err)
	second, err := discardParser().Count(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParallelMatchesSequential(t *testing.T) {
	input := randomContents(5000)

	want, err := discardParser().Count(strings.NewReader(input))
	require.NoError(t, err)

	for _, workers := range []int{1, 3, 8} {
		p := discardParser()
		p.Workers = workers
		got, err := p.CountParallel(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%v", workers)
	}
}

func TestChunkSizeDoesNotChangeCounts(t *testing.T) {
	input := randomContents(2500)

	want, err := discardParser().Count(strings.NewReader(input))
	require.NoError(t, err)

	for _, size := range []int{1, 7, 1000} {
		p := discardParser()
		p.ChunkSize = size
		got, err := p.CountParallel(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, want, got, "chunk size=%v", size)
	}
}

func TestPropagatesReadErrors(t *testing.T) {
	boom := fmt.Errorf("stream broke")
	_, err := discardParser().Count(failingReader{boom})
	assert.ErrorIs(t, err, boom)

	_, err = discardParser().CountParallel(failingReader{boom})
	assert.ErrorIs(t, err, boom)
}

type failingReader struct {
	err error
}

func (r failingReader) Read(p []byte) (int, error) {
	return 0, r.err
}

// randomContents builds a deterministic pseudo-random index: duplicate
// packages within lines, packages recurring across lines, the occasional
// malformed or blank line.
func randomContents(lines int) string {
	rng := rand.New(rand.NewSource(42))
	packages := []string{
		"pkgA", "pkgB", "pkgC", "admin/pkgd", "utils/pkge",
		"libs/pkgf", "pkgG", "pkgH", "pkgI", "pkgJ",
	}

	var b strings.Builder
	for i := 0; i < lines; i++ {
		switch rng.Intn(20) {
		case 0:
			b.WriteString("\n")
			continue
		case 1:
			b.WriteString("malformedlinewithoutseparator\n")
			continue
		}

		fmt.Fprintf(&b, "usr/share/doc/file%v ", i)
		n := 1 + rng.Intn(4)
		for j := 0; j < n; j++ {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString(packages[rng.Intn(len(packages))])
		}
		b.WriteString("\n")
	}
	return b.String()
}

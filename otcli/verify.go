package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/npillmayer/otwire/internal/fontload"
	"github.com/npillmayer/otwire/ot"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// verifiedTables are the tables verify round-trips, if present in a font.
var verifiedTables = []ot.Tag{ot.TagGDEF, ot.TagGPOS, ot.TagGSUB}

// verdict is the outcome of round-tripping one table of a font.
type verdict struct {
	Font      string
	Tag       ot.Tag
	Size      int  // bytes in the font
	Encoded   int  // bytes after re-encoding
	Identical bool // re-encoding reproduces the font's bytes
	Stable    bool // decode(encode(t)) equals t
	Err       error
}

func (v verdict) passed() bool {
	return v.Err == nil && v.Stable
}

func (v verdict) result() string {
	switch {
	case v.Err != nil:
		return userMessage(v.Err)
	case !v.Stable:
		return "round trip changed the table"
	case v.Identical:
		return "ok, byte identical"
	}
	return "ok"
}

// verifyTable checks that decode(encode(decode(data))) equals decode(data).
func verifyTable(tag ot.Tag, data []byte) verdict {
	v := verdict{Tag: tag, Size: len(data)}
	t1, err := ot.DecodeTable(tag, data)
	if err != nil {
		v.Err = err
		return v
	}
	b1, err := ot.Encode(t1)
	if err != nil {
		v.Err = err
		return v
	}
	v.Encoded = len(b1)
	t2, err := ot.DecodeTable(tag, b1)
	if err != nil {
		v.Err = err
		return v
	}
	b2, err := ot.Encode(t2)
	if err != nil {
		v.Err = err
		return v
	}
	v.Stable = reflect.DeepEqual(t1, t2) && bytes.Equal(b1, b2)
	v.Identical = bytes.Equal(data, b1)
	tracer().Debugf("%s: stable=%v identical=%v", tag, v.Stable, v.Identical)
	return v
}

// verifyFont round-trips the layout tables of one font file.
func verifyFont(path string) ([]verdict, error) {
	f, err := fontload.LoadOpenTypeFont(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var verdicts []verdict
	for _, tag := range verifiedTables {
		data := f.TableBytes(tag)
		if data == nil {
			continue
		}
		v := verifyTable(tag, data)
		v.Font = filepath.Base(path)
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}

// verifyFonts verifies fonts in parallel, at most jobs at a time. Codec
// errors are reported in the verdicts; a font which cannot be loaded at all
// aborts the run.
func verifyFonts(ctx context.Context, paths []string, jobs int) ([]verdict, error) {
	if jobs < 1 {
		jobs = 1
	}
	sem := semaphore.NewWeighted(int64(jobs))
	results := make([][]verdict, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		if err := sem.Acquire(ctx, 1); err != nil {
			break // context cancelled by a failed font
		}
		g.Go(func() error {
			defer sem.Release(1)
			v, err := verifyFont(path)
			results[i] = v
			return err
		})
	}
	err := g.Wait()
	var all []verdict
	for _, v := range results {
		all = append(all, v...)
	}
	tracer().Infof("verified %d tables of %d fonts", len(all), len(paths))
	return all, err
}

func allPassed(verdicts []verdict) bool {
	for _, v := range verdicts {
		if !v.passed() {
			return false
		}
	}
	return true
}

func printVerification(verdicts []verdict) {
	if len(verdicts) == 0 {
		pterm.Info.Println("no layout tables found")
		return
	}
	data := [][]string{
		{"Font", "Table", "Bytes", "Re-encoded", "Result"},
	}
	for _, v := range verdicts {
		data = append(data, []string{
			v.Font,
			v.Tag.String(),
			fmt.Sprintf("%d", v.Size),
			fmt.Sprintf("%d", v.Encoded),
			v.result(),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// Package tree provides a listing of the server storage directory.
package tree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/Guliveer/vitalis/diagnostics/internal/classifier"
	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
	"github.com/Guliveer/vitalis/diagnostics/internal/source"
)

// Classifier selects the storage listing.
const Classifier = "tree"

// Provider lists the storage directory without copying any of its files.
type Provider struct {
	fs   afero.Fs
	root string
}

// New creates an uninitialized tree provider.
func New() *Provider { return &Provider{} }

// Name returns the provider identifier.
func (p *Provider) Name() string { return "tree" }

// Init resolves the storage directory to list.
func (p *Provider) Init(ic diagnostics.InitContext) error {
	root := ic.StoreDir
	if root == "" && ic.Config != nil {
		root = ic.Config.Resolve(ic.Config.Server.StoreDir)
	}
	if root == "" {
		return errors.New("no storage directory configured")
	}
	p.fs = ic.FS
	p.root = root
	return nil
}

// FilterClassifiers returns the classifiers this provider serves.
func (p *Provider) FilterClassifiers() []string { return []string{Classifier} }

// DiagnosticsSources returns the storage listing when the tree classifier is requested.
func (p *Provider) DiagnosticsSources(requested classifier.Set) []diagnostics.Source {
	if !requested.Matches(Classifier) {
		return nil
	}
	return []diagnostics.Source{source.Text("tree.txt", p.render)}
}

// render walks the storage directory in lexical order, indenting two spaces
// per level.
func (p *Provider) render() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.root)

	var files int
	var total int64
	err := afero.Walk(p.fs, p.root, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(p.root, file)
		if err != nil || rel == "." {
			return err
		}
		indent := strings.Repeat("  ", strings.Count(filepath.ToSlash(rel), "/")+1)
		if info.IsDir() {
			fmt.Fprintf(&b, "%s%s/\n", indent, info.Name())
			return nil
		}
		files++
		total += info.Size()
		fmt.Fprintf(&b, "%s%s (%s)\n", indent, info.Name(), formatSize(info.Size()))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", p.root, err)
	}

	fmt.Fprintf(&b, "\n%d files, %s\n", files, formatSize(total))
	return b.String(), nil
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

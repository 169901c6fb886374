package exporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/pool"

	"github.com/agentbuilder-dev/agentbuilder/internal/client"
	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

const defaultConcurrency = 4

// Source lists and exports agents, usually the API client.
type Source interface {
	ListAgents(opts client.AgentListOptions) ([]models.Agent, error)
	ExportAgent(id, format string) (*client.Export, error)
}

// Service writes every agent of a Source into a directory.
type Service struct {
	source      Source
	concurrency int
	progress    io.Writer
}

// Result summarizes a bulk export.
type Result struct {
	Written []string
	Failed  map[string]error
}

// NewService creates a new exporter service.
func NewService(source Source) *Service {
	return &Service{
		source:      source,
		concurrency: defaultConcurrency,
	}
}

// SetConcurrency bounds the number of exports in flight.
func (s *Service) SetConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

// SetProgressOutput enables a progress bar written to w.
func (s *Service) SetProgressOutput(w io.Writer) {
	s.progress = w
}

// ExportAll exports every agent matching opts into dir. Failures of single agents
// are collected in the result; the returned error joins them.
func (s *Service) ExportAll(ctx context.Context, dir string, format jaf.Format, opts client.AgentListOptions) (*Result, error) {
	if s.source == nil {
		return nil, fmt.Errorf("export source is not initialized")
	}

	agents, err := s.source.ListAgents(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	filenames := assignFilenames(agents, format)
	bar := s.newProgressBar(len(agents))

	var mu sync.Mutex
	result := &Result{Failed: map[string]error{}}

	p := pool.New().WithMaxGoroutines(s.concurrency).WithContext(ctx)
	for _, agent := range agents {
		p.Go(func(ctx context.Context) error {
			defer func() {
				if bar != nil {
					_ = bar.Add(1)
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}

			path := filepath.Join(dir, filenames[agent.ID])
			err := s.exportOne(agent.ID, format, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[agent.ID] = err
				return fmt.Errorf("agent %s: %w", agent.ID, err)
			}
			result.Written = append(result.Written, path)
			return nil
		})
	}
	err = p.Wait()
	if bar != nil {
		_ = bar.Finish()
	}
	return result, err
}

func (s *Service) exportOne(id string, format jaf.Format, path string) error {
	export, err := s.source.ExportAgent(id, string(format))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, export.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *Service) newProgressBar(total int) *progressbar.ProgressBar {
	if s.progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.progress),
		progressbar.OptionSetDescription("Exporting agents"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

// assignFilenames gives every agent a distinct file name. Agents sharing a name
// get their id appended.
func assignFilenames(agents []models.Agent, format jaf.Format) map[string]string {
	counts := make(map[string]int, len(agents))
	for _, a := range agents {
		counts[strings.ToLower(jaf.ExportFilename(a.Name, format))]++
	}

	names := make(map[string]string, len(agents))
	for _, a := range agents {
		name := jaf.ExportFilename(a.Name, format)
		if counts[strings.ToLower(name)] > 1 {
			name = strings.TrimSuffix(name, format.Extension()) + "-" + a.ID + format.Extension()
		}
		names[a.ID] = name
	}
	return names
}

package app

import (
	"io"
	"os"
	"time"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/adapters"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/ports"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

type Service struct {
	Workspace ports.WorkspacePort
	Reports   ports.ReportPort
	Layout    types.Layout
	// Out receives dry-run diffs.
	Out   io.Writer
	Clock func() time.Time
}

func NewService() Service {
	return Service{
		Workspace: adapters.NewWorkspaceAdapter(),
		Reports:   adapters.NewReportFileAdapter(),
		Layout:    types.DefaultLayout(),
		Out:       os.Stdout,
		Clock:     time.Now,
	}
}

func (s Service) layout() types.Layout {
	return s.Layout.WithDefaults()
}

func (s Service) out() io.Writer {
	if s.Out == nil {
		return io.Discard
	}
	return s.Out
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

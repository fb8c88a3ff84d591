package ports

import "github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"

type ReportPort interface {
	WriteReport(path string, report types.ResolutionReport) error
	ReadReport(path string) (types.ResolutionReport, error)
}

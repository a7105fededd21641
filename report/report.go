// Package report turns a benchmark results directory into the server and
// client report figures.
package report

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/neehar-mavuduru/benchreport/artifact"
	"github.com/neehar-mavuduru/benchreport/config"
	"github.com/neehar-mavuduru/benchreport/loader"
	"github.com/neehar-mavuduru/benchreport/panels"
	"github.com/neehar-mavuduru/benchreport/series"
)

var log = logrus.WithField("component", "report")

// ErrNoData is returned when neither a client nor a server source could be
// loaded. No artifact is written in that case.
var ErrNoData = errors.New("no usable client or server data")

// Result describes one report run.
type Result struct {
	Loaded *loader.Result

	Client *series.ClientFrame
	Server *series.ServerFrame

	Figures []*Figure
	// Artifacts lists every file written, in order.
	Artifacts []string
}

// Figure returns the figure of the given kind, or nil if none was produced.
func (r *Result) Figure(kind series.Kind) *Figure {
	for _, f := range r.Figures {
		if f.Kind == kind {
			return f
		}
	}
	return nil
}

// Generate loads the counter files of cfg.ResultsDir, aggregates them and
// writes a server figure, a client figure, or both, as PNG and SVG into the
// same directory. A figure that fails to render or write does not stop the
// other one; the failures are joined in the returned error.
func Generate(cfg config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	theme := panels.DefaultTheme()
	if err := theme.Apply(cfg.Theme); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	loaded, err := loader.Load(cfg.ResultsDir, cfg.LoaderOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to discover sources: %w", err)
	}
	res := &Result{Loaded: loaded}
	if loaded.Empty() {
		return res, ErrNoData
	}

	w := artifact.NewWriter(cfg.ResultsDir)
	var errs []error

	if loaded.Server != nil {
		res.Server = series.NewServerFrame(series.Aggregate(series.Server, []*series.Source{loaded.Server}))
		fig, err := ServerFigure(theme, cfg.Report, res.Server)
		if err == nil {
			err = save(w, fig, cfg.Report.ServerBaseName, cfg.Report.DPI)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("server report: %w", err))
		} else {
			res.Figures = append(res.Figures, fig)
		}
	}

	if len(loaded.Clients) > 0 {
		res.Client = series.NewClientFrame(series.Aggregate(series.Client, loaded.Clients))
		log.WithFields(logrus.Fields{
			"sources": len(loaded.Clients),
			"rows":    res.Client.Len(),
			"tx":      res.Client.TxSource,
		}).Info("aggregated client sources")

		fig, err := ClientFigure(theme, cfg.Report, res.Client)
		if err == nil {
			err = save(w, fig, cfg.Report.ClientBaseName, cfg.Report.DPI)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("client report: %w", err))
		} else {
			res.Figures = append(res.Figures, fig)
		}
	}

	res.Artifacts = w.Written()
	return res, errors.Join(errs...)
}

func save(w *artifact.Writer, fig *Figure, base string, dpi int) error {
	if err := fig.Save(w, base, dpi); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"figure":    fig.Kind,
		"artifacts": fig.Artifacts,
	}).Info("figure written")
	return nil
}

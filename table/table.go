// Package table renders query results as a table of labeled, linked cells.
package table

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/labels"
	"hermannm.dev/wikicharts/notice"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

type Config struct {
	Query        string `json:"query"`
	Inference    bool   `json:"inference,omitempty"`
	HistoricData bool   `json:"historicData,omitempty"`
	// Bindings to show, in order. If empty, all bindings in the result are shown, sorted by name.
	Columns       []string `json:"columns,omitempty"`
	Headers       []string `json:"headers,omitempty"`
	Title         string   `json:"title,omitempty"`
	NoDataMessage string   `json:"noDataMessage,omitempty"`
	// Maximum number of rows to show. 0 means no limit.
	Limit int `json:"limit,omitempty"`
}

func (config Config) problems() []string {
	var problems []string
	if strings.TrimSpace(config.Query) == "" {
		problems = append(problems, "missing query")
	}
	for i, column := range config.Columns {
		if strings.TrimSpace(column) == "" {
			problems = append(problems, fmt.Sprintf("column %d is blank", i+1))
		}
	}
	if len(config.Headers) > 0 && len(config.Headers) != len(config.Columns) {
		problems = append(problems, fmt.Sprintf(
			"got %d headers for %d columns", len(config.Headers), len(config.Columns),
		))
	}
	if config.Limit < 0 {
		problems = append(problems, "limit cannot be negative")
	}
	return problems
}

type Model struct {
	Title   string   `json:"title,omitempty"`
	Headers []string `json:"headers"`
	Rows    [][]Cell `json:"rows"`
	// Set if rows were cut off by the configured limit.
	Truncated bool `json:"truncated,omitempty"`
}

type Cell struct {
	Label string `json:"label"`
	Link  string `json:"link,omitempty"`
}

type Outcome struct {
	Model  *Model         `json:"model,omitempty"`
	Notice *notice.Notice `json:"notice,omitempty"`
}

type Renderer struct {
	Source           query.Source
	Labels           labels.LabelResolver
	Links            labels.LinkResolver
	ShowErrorDetails bool
}

// Render never returns an error: failures are logged and turned into notices. The query cursor is
// closed before Render returns.
func (renderer Renderer) Render(ctx context.Context, config Config) (outcome Outcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = renderer.errorOutcome(fmt.Errorf("panic while rendering table: %v", recovered))
		}
	}()

	if problems := config.problems(); len(problems) > 0 {
		return renderer.errorOutcome(notice.NewError(
			notice.ConfigurationError(strings.Join(problems, "; ")),
			nil,
		))
	}
	if renderer.Source == nil {
		return renderer.errorOutcome(fmt.Errorf("table renderer has no query source"))
	}

	rows, err := renderer.Source.Select(
		ctx,
		config.Query,
		query.Options{Inference: config.Inference, HistoricData: config.HistoricData},
	)
	if err != nil {
		return renderer.errorOutcome(wrap.Error(err, "table query failed"))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.ErrorCause(err, "failed to close table query cursor")
		}
	}()

	var results []query.Row
	truncated := false
	for rows.Next() {
		if config.Limit > 0 && len(results) == config.Limit {
			truncated = true
			break
		}
		results = append(results, rows.Row())
	}
	if err := rows.Err(); err != nil {
		return renderer.errorOutcome(wrap.Error(err, "failed to read table query results"))
	}

	if len(results) == 0 {
		noData := notice.NoData(config.NoDataMessage)
		return Outcome{Notice: &noData}
	}

	columns := config.Columns
	if len(columns) == 0 {
		columns = bindingNames(results)
	}
	headers := config.Headers
	if len(headers) == 0 {
		headers = columns
	}

	model := Model{
		Title:     config.Title,
		Headers:   append([]string(nil), headers...),
		Rows:      make([][]Cell, len(results)),
		Truncated: truncated,
	}
	for i, row := range results {
		model.Rows[i] = renderer.cells(ctx, row, columns)
	}

	log.Debug(
		"rendered table",
		slog.Int("rows", len(model.Rows)),
		slog.Int("columns", len(columns)),
	)
	return Outcome{Model: &model}
}

func (renderer Renderer) cells(ctx context.Context, row query.Row, columns []string) []Cell {
	cells := make([]Cell, len(columns))
	for i, column := range columns {
		term, bound := row.Get(column)
		if !bound {
			continue
		}

		label := term.String()
		if renderer.Labels != nil {
			resolved, err := renderer.Labels.Label(ctx, term)
			if err != nil {
				log.ErrorCause(err, "failed to resolve table cell label, using raw value")
			} else if resolved != "" {
				label = resolved
			}
		}

		cells[i].Label = label
		if renderer.Links != nil {
			cells[i].Link = renderer.Links.Link(term)
		}
	}
	return cells
}

func bindingNames(rows []query.Row) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, row := range rows {
		for name := range row {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func (renderer Renderer) errorOutcome(err error) Outcome {
	log.ErrorCause(err, "failed to render table")
	errorNotice := notice.FromError(err, renderer.ShowErrorDetails)
	return Outcome{Notice: &errorNotice}
}

package services

import (
	"context"
	"fmt"
	"time"

	"resultsdash/internal/core"
	applog "resultsdash/internal/log"
	"resultsdash/internal/sheets"
)

// LoadDataset reads the raw table from reader and normalizes it. Any error
// is fatal for the process: the dashboard never renders partial data.
func LoadDataset(ctx context.Context, reader sheets.ResultsReader) (core.Dataset, error) {
	if reader == nil {
		return core.Dataset{}, fmt.Errorf("load dataset: no results reader configured")
	}

	start := time.Now()
	raw, err := reader.ReadResults(ctx)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("load dataset: %w", err)
	}

	ds, err := core.Normalize(raw)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("load dataset: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentLoader).InfoContext(ctx, "Dataset loaded",
		applog.FieldRows, ds.Len(),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return ds, nil
}
